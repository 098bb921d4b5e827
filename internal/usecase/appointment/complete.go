package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
)

// CompleteAppointment é a conclusão manual feita pelo admin.
type CompleteAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulerMetrics
	now     func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		now:     timezone.Now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	adminID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.Complete(ap, uc.now()); err != nil {
		return nil, err
	}
	ap.UpdatedBy = adminID

	if err := uc.repo.SaveTransition(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(ap.Status)
	uc.audit.Dispatch(audit.Event{
		ActorID:  adminID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
