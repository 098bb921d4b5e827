package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/doctor-scheduler/internal/db"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/doctor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/doctor-scheduler/internal/logger"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
	"github.com/BruksfildServices01/doctor-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/worker"
)

// worker roda o sweeper de consultas vencidas via asynq.
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

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zl.Fatal("redis is required by the worker", zap.Error(err))
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	sweep := appointment.NewSweepExpired(
		infraRepo.NewAppointmentGormRepository(db),
		auditDispatcher,
		m,
	)
	handler := worker.NewSweepHandler(sweep, lock.NewRedisLock(rdb))

	// ======================================================
	// ⏱️ SCHEDULER + SERVER
	// ======================================================
	scheduler, err := worker.NewScheduler(cfg)
	if err != nil {
		zl.Fatal("invalid SWEEP_CRON", zap.String("cron", cfg.SweepCron), zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		zl.Fatal("scheduler", zap.Error(err))
	}

	srv := worker.NewServer(cfg)
	if err := srv.Start(worker.NewMux(handler)); err != nil {
		zl.Fatal("asynq server", zap.Error(err))
	}

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("metrics server", zap.Error(err))
		}
	}()

	zl.Info("worker running", zap.String("cron", cfg.SweepCron))

	<-ctx.Done()
	zl.Info("shutting down worker")

	scheduler.Shutdown()
	srv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
