package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/api/handler"
	"github.com/aryamanr26/course-flow-hackathon/internal/api/router"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
	"github.com/aryamanr26/course-flow-hackathon/internal/seed"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
	"github.com/aryamanr26/course-flow-hackathon/pkg/database"
	"github.com/aryamanr26/course-flow-hackathon/pkg/jwt"
	applogger "github.com/aryamanr26/course-flow-hackathon/pkg/logger"
	"github.com/aryamanr26/course-flow-hackathon/pkg/redis"
)

func main() {
	// 1. 加载配置（路径可由 COURSEFLOW_CONFIG 指定）
	cfg, err := config.Load(os.Getenv("COURSEFLOW_CONFIG"))
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

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.Database.Driver, model.AllModels(), logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	repo := repository.NewRepository(db)

	// 3.1 演示数据
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := seed.Run(seedCtx, repo, &cfg.Seed, logger); err != nil {
		seedCancel()
		logger.Fatal("导入种子数据失败", zap.Error(err))
	}
	seedCancel()

	// 4. 连接 Redis（可选：未启用或连接失败时降级运行）
	var (
		rdb    *redis.Client
		cache  service.Cache
		tokens service.TokenStore
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，黑名单、限流与缓存将不可用", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		cache = rdb
		tokens = rdb
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, cache, tokens, logger)
	h := handler.NewHandler(cfg, svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, db, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
