package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studentadmin/internal/activity"
	"studentadmin/internal/auth"
	"studentadmin/internal/config"
	"studentadmin/internal/httpapi"
	"studentadmin/internal/logging"
	"studentadmin/internal/observability"
	"studentadmin/internal/realtime"
	"studentadmin/internal/store"
	"studentadmin/internal/student"
	"studentadmin/internal/uploads"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "studentadmin")
	if err != nil {
		logger.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer closeSentry()

	if err := run(cfg, logger.Base); err != nil {
		logger.Sugar.Fatalw("server failed", "err", err)
	}
}

func run(cfg config.App, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(cfg.DatabaseURL(), cfg.DBPoolSize)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db.Client); err != nil {
		return err
	}

	photoStore, err := uploads.New(cfg.UploadDir, cfg.UploadPublicURL)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logger)
	var notifier student.Publisher = hub
	var redisHealth httpapi.HealthChecker
	if cfg.NotifierBackend == "redis" {
		redisClient := store.NewRedis(cfg.RedisAddr)
		bridge := realtime.NewRedisBridge(redisClient.Client, hub, "studentadmin:events", logger)
		go bridge.Run(ctx)
		notifier = bridge
		redisHealth = redisClient
		logger.Info("notifier backend: redis", zap.String("addr", cfg.RedisAddr))
	}

	recorder := activity.NewRecorder(activity.NewRepository(db.Client), logger)
	authSvc := auth.NewService(auth.NewRepository(db.Client), cfg.JWTSecret, cfg.TokenTTL)
	studentSvc := student.NewService(student.NewRepository(db.Client), recorder, notifier, photoStore)

	router := httpapi.NewRouter(httpapi.Deps{
		Cfg:      cfg,
		Log:      logger,
		Auth:     authSvc,
		Students: studentSvc,
		Logs:     activity.NewRepository(db.Client),
		Hub:      hub,
		DB:       db.Client,
		Redis:    redisHealth,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}
