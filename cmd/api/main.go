package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/doctor-scheduler/internal/db"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/doctor-scheduler/internal/logger"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/routes"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
)

func main() {

	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	logger.Set(zl)
	defer func() { _ = zl.Sync() }()

	timezone.SetClinic(cfg.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🗄️ DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	if err := dbpkg.SeedAdmin(ctx, db, cfg); err != nil {
		zl.Fatal("seed admin", zap.Error(err))
	}

	// ======================================================
	// 🔌 REDIS (cache opcional)
	// ======================================================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		zl.Warn("redis unavailable, specialization cache disabled", zap.Error(err))
		_ = rdb.Close()
		rdb = nil
	}

	// ======================================================
	// 📦 STORAGE / AUDIT / METRICS
	// ======================================================
	var photos *storage.PhotoStore
	if cfg.S3.Enabled() {
		photos = storage.NewPhotoStore(storage.NewS3Client(cfg.S3), cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Redis:   rdb,
		Metrics: m,
		Audit:   auditDispatcher,
		Photos:  photos,
	}); err != nil {
		zl.Fatal("routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
