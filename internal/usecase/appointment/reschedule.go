package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
)

type RescheduleAppointmentInput struct {
	PatientID     string
	AppointmentID string

	Date      string
	StartTime string
	EndTime   string
}

// RescheduleAppointment move o próprio registro para o novo horário; o
// horário antigo fica livre no mesmo update.
type RescheduleAppointment struct {
	repo         domain.Repository
	availability *CheckAvailability
	audit        *audit.Dispatcher
	metrics      *metrics.SchedulerMetrics
	now          func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:         repo,
		availability: NewCheckAvailability(repo),
		audit:        audit,
		metrics:      m,
		now:          timezone.Now,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	date, iv, err := parseSlot(in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetForPatient(ctx, in.AppointmentID, in.PatientID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	if err := uc.availability.mustBeFree(ctx, ap.DoctorID, date, iv, ap.ID); err != nil {
		return nil, err
	}

	if !domain.IsFuture(date, iv, uc.now()) {
		return nil, httperr.ErrInvalidTemporalRange()
	}

	previous := map[string]any{
		"date":  ap.AppointmentDate.String(),
		"start": ap.StartMinute.String(),
		"end":   ap.EndMinute.String(),
	}

	from := domain.Status(ap.Status)
	if err := domain.Reschedule(ap, date, iv); err != nil {
		return nil, err
	}
	ap.UpdatedBy = in.PatientID

	if err := uc.repo.UpdateIfFree(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(ap.Status)
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.PatientID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"previous": previous},
	})

	return ap, nil
}
