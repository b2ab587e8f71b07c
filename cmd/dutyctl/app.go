package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
	"github.com/j4v3l/Duty-Tracker/internal/service"
	"github.com/j4v3l/Duty-Tracker/pkg/database"
	applogger "github.com/j4v3l/Duty-Tracker/pkg/logger"
	"github.com/j4v3l/Duty-Tracker/pkg/redis"
)

// app 一次命令执行所需的依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	svc    *service.Service
}

// openApp 加载配置、连接数据库并执行迁移，按服务端相同方式装配 Service
func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewCLILogger(&cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	gormLevel := "warn"
	if verbose {
		gormLevel = cfg.Log.Level
	}
	db, err := database.NewDB(&cfg.Database, gormLevel, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
		sqlDB.Close()
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, db: db}

	// 与服务端共用同一数据库时，需通过 Redis 锁与服务端互斥
	var locker service.MutationLocker = service.NewLocalLocker()
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(&cfg.Redis, cfg.Roster.LockTTL, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，使用进程内锁", zap.Error(err))
		} else {
			a.rdb = rdb
			locker = rdb
		}
	}

	standard, err := config.LoadSeed(cfg.Feature.SeedFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.svc = service.NewService(cfg, repository.NewRepository(db), standard, locker, logger)
	return a, nil
}

// Close 释放数据库与 Redis 连接
func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.logger.Sync()
}
