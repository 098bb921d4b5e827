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

type CancelAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulerMetrics
	now     func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *CancelAppointment {
	return &CancelAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		now:     timezone.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	patientID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetForPatient(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}
	ap.UpdatedBy = patientID

	if err := uc.repo.SaveTransition(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(ap.Status)
	uc.audit.Dispatch(audit.Event{
		ActorID:  patientID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
