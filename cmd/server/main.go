package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"activity-portal/backend/config"
	"activity-portal/backend/internal/api/handler"
	"activity-portal/backend/internal/api/middleware"
	"activity-portal/backend/internal/api/router"
	"activity-portal/backend/internal/repository"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/database"
	"activity-portal/backend/pkg/jwt"
	applogger "activity-portal/backend/pkg/logger"
	"activity-portal/backend/pkg/metrics"
	"activity-portal/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	migrateOnly := flag.Bool("migrate-only", false, "仅执行数据库迁移后退出")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *migrateOnly); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, migrateOnly bool) error {
	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// ── 数据库与迁移 ──
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}
	if migrateOnly {
		return nil
	}

	// ── Redis（可选）──
	// 接口变量只在连接成功时赋值，nil 即降级
	var (
		blacklist service.TokenBlacklist
		checker   middleware.TokenChecker
		limiter   middleware.RateLimiter
		cache     router.Pinger
	)
	if rdb, err := redis.NewClient(&cfg.Redis, logger); err != nil {
		logger.Warn("Redis 不可用，Token 黑名单与接口限流已关闭", zap.Error(err))
	} else {
		defer rdb.Close()
		blacklist, checker, limiter, cache = rdb, rdb, rdb, rdb
	}

	// ── 依赖注入: Repository → Service → Handler ──
	jwtMgr := jwt.NewManager(&cfg.Auth)
	metrics.MustRegister()

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, logger)
	engine := router.Setup(cfg, handler.NewHandler(cfg, svc), router.Deps{
		JWT:     jwtMgr,
		Checker: checker,
		Limiter: limiter,
		DB:      db,
		Cache:   cache,
	}, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 服务器异常: %w", err)
		}
	case <-ctx.Done():
		logger.Info("收到关闭信号，开始优雅关闭...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器关闭异常: %w", err)
	}

	logger.Info("服务器已关闭")
	return nil
}
