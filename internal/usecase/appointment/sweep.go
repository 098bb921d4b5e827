package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/logger"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
)

const SystemActor = "system"

type SweepResult struct {
	Examined  int `json:"examined"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// SweepExpired conclui agendamentos abertos cujo término já passou.
// Rodar duas vezes com o mesmo now não altera nada na segunda.
type SweepExpired struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulerMetrics
	loc     func() *time.Location
}

func NewSweepExpired(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *SweepExpired {
	return &SweepExpired{
		repo:    repo,
		audit:   audit,
		metrics: m,
		loc:     timezone.Clinic,
	}
}

func (uc *SweepExpired) Execute(
	ctx context.Context,
	now time.Time,
) (SweepResult, error) {

	var res SweepResult

	now = now.In(uc.loc())
	today := clock.DateOf(now)

	expired, err := uc.repo.ListExpired(ctx, today, clock.Of(now))
	if err != nil {
		uc.metrics.ObserveSweep("error", 0)
		return res, err
	}

	log := logger.L().With(zap.String("today", today.String()))

	for i := range expired {
		if err := ctx.Err(); err != nil {
			uc.metrics.ObserveSweep("interrupted", res.Completed)
			return res, err
		}

		ap := &expired[i]
		res.Examined++

		// a consulta já filtra; a checagem local cobre relógios divergentes
		if !domain.IsExpired(ap, now) {
			res.Skipped++
			continue
		}

		ok, err := uc.repo.MarkCompleted(ctx, ap.ID, now)
		if err != nil {
			res.Failed++
			log.Error("sweep: failed to complete appointment",
				zap.String("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}
		if !ok {
			res.Skipped++
			continue
		}

		res.Completed++
		uc.audit.Dispatch(audit.Event{
			ActorID:  SystemActor,
			Action:   "appointment_completed",
			Entity:   "appointment",
			EntityID: ap.ID,
			Metadata: map[string]any{"source": "sweeper"},
		})
	}

	uc.metrics.ObserveSweep("ok", res.Completed)
	if res.Examined > 0 {
		log.Info("sweep finished",
			zap.Int("examined", res.Examined),
			zap.Int("completed", res.Completed),
			zap.Int("skipped", res.Skipped),
			zap.Int("failed", res.Failed),
		)
	}

	return res, nil
}
