package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/logger"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
	"github.com/BruksfildServices01/doctor-scheduler/internal/usecase/appointment"
)

const (
	TypeSweepExpired = "appointment:sweep"

	sweepLockKey = "lock:appointment:sweep"
	sweepLockTTL = 4 * time.Minute
	sweepTimeout = 3 * time.Minute
)

type sweeper interface {
	Execute(ctx context.Context, now time.Time) (appointment.SweepResult, error)
}

type locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*lock.Handle, error)
}

// NewSweepTask é a tarefa periódica; sem retry porque a próxima execução
// já cobre o que faltou.
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweepExpired, nil,
		asynq.MaxRetry(0),
		asynq.Timeout(sweepTimeout),
	)
}

type SweepHandler struct {
	sweep sweeper
	lock  locker
	now   func() time.Time
}

func NewSweepHandler(s sweeper, l locker) *SweepHandler {
	return &SweepHandler{sweep: s, lock: l, now: timezone.Now}
}

// ProcessTask roda um sweep por vez entre todas as réplicas do worker.
func (h *SweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	log := logger.L().Named("sweeper")

	handle, err := h.lock.Acquire(ctx, sweepLockKey, sweepLockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		log.Info("sweep already running elsewhere, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Release(context.Background()); err != nil {
			log.Warn("failed to release sweep lock", zap.Error(err))
		}
	}()

	res, err := h.sweep.Execute(ctx, h.now())
	if err != nil {
		log.Error("sweep aborted", zap.Error(err), zap.Int("completed", res.Completed))
		return err
	}

	log.Debug("sweep done",
		zap.Int("examined", res.Examined),
		zap.Int("completed", res.Completed),
		zap.Int("failed", res.Failed),
	)
	return nil
}

// ======================================================
// ASYNQ WIRING
// ======================================================

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewServer(cfg *config.Config) *asynq.Server {
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.L().Named("asynq").Sugar(),
	})
}

func NewMux(h *SweepHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeSweepExpired, h)
	return mux
}

// NewScheduler agenda o sweep com SWEEP_CRON no fuso da clínica.
func NewScheduler(cfg *config.Config) (*asynq.Scheduler, error) {
	s := asynq.NewScheduler(RedisOpt(cfg), &asynq.SchedulerOpts{
		Location: timezone.Clinic(),
		Logger:   logger.L().Named("asynq").Sugar(),
	})

	if _, err := s.Register(cfg.SweepCron, NewSweepTask()); err != nil {
		return nil, err
	}
	return s, nil
}
