package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/api/handler"
	"github.com/j4v3l/Duty-Tracker/internal/api/router"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
	"github.com/j4v3l/Duty-Tracker/internal/service"
	"github.com/j4v3l/Duty-Tracker/pkg/database"
	applogger "github.com/j4v3l/Duty-Tracker/pkg/logger"
	"github.com/j4v3l/Duty-Tracker/pkg/redis"
)

func main() {
	// 1. 加载配置（DUTY_CONFIG 为空时按默认路径查找）
	cfg, err := config.Load(os.Getenv("DUTY_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 变更锁：启用 Redis 时跨进程互斥，否则进程内互斥
	var rdb *redis.Client
	var locker service.MutationLocker = service.NewLocalLocker()
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, cfg.Roster.LockTTL, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，降级为进程内锁且导入接口不限流", zap.Error(err))
			rdb = nil
		} else {
			locker = rdb
		}
	}

	// 5. 种子数据（标准岗位目录同时供 SetupPosts 使用）
	seed, err := config.LoadSeed(cfg.Feature.SeedFile)
	if err != nil {
		logger.Fatal("加载种子数据失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, seed, locker, logger)
	h := handler.NewHandler(svc)

	if cfg.Feature.SeedOnStartup {
		if _, err := svc.Seed.Bootstrap(context.Background(), seed); err != nil {
			logger.Fatal("初始化种子数据失败", zap.Error(err))
		}
	}

	// 7. 初始化路由
	engine := router.Setup(cfg, h, db, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
