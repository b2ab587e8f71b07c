package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// 工作目录下无 config.yaml，仅使用默认值
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "06:00", cfg.Roster.DefaultStartTime)
	assert.Equal(t, "18:00", cfg.Roster.DefaultEndTime)
	assert.Equal(t, "Imported from group chat", cfg.Roster.ImportNote)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9090\ndb:\n  driver: postgres\n  name: duty\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("DUTY_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "duty", cfg.Database.Name)
	// 环境变量优先于配置文件
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8000},
			Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: "x.db"},
			Roster:   RosterConfig{DefaultStartTime: "06:00", DefaultEndTime: "18:00", LockTTL: 1},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Roster.DefaultStartTime = "6am"
	assert.Error(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: DriverSQLite, SQLitePath: "/tmp/duty.db"}
	assert.Equal(t, "/tmp/duty.db?_foreign_keys=on", sqlite.DSN())

	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "UTC"}
	assert.Contains(t, pg.DSN(), "host=db port=5432")
	assert.Contains(t, pg.DSN(), "dbname=n")
}

func TestLoadSeed_Default(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)
	assert.Len(t, seed.PostTypes, 6)
	assert.Len(t, seed.Posts, 8)
	assert.Len(t, seed.Personnel, 18)

	weights := map[string]int{}
	for _, pt := range seed.PostTypes {
		weights[pt.Name] = pt.DifficultyWeight
	}
	assert.Equal(t, 5, weights["SOG"])
	assert.Equal(t, 1, weights["Stand by"])
}

func TestLoadSeed_UndeclaredPostType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	content := []byte("[[post_types]]\nname = \"CQ\"\n\n[[posts]]\nname = \"ECP1\"\npost_type = \"ECP\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	_, err := LoadSeed(path)
	assert.Error(t, err)
}
