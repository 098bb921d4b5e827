package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/timezone"
)

// UpdateAppointmentInput: campos nil não mudam.
type UpdateAppointmentInput struct {
	PatientID     string
	AppointmentID string

	Date      *string
	StartTime *string
	EndTime   *string

	MedicalHistory *string
	Symptoms       *string
}

func (in UpdateAppointmentInput) changesSlot() bool {
	return in.Date != nil || in.StartTime != nil || in.EndTime != nil
}

// UpdateAppointment nunca altera o status.
type UpdateAppointment struct {
	repo         domain.Repository
	availability *CheckAvailability
	audit        *audit.Dispatcher
	now          func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:         repo,
		availability: NewCheckAvailability(repo),
		audit:        audit,
		now:          timezone.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetForPatient(ctx, in.AppointmentID, in.PatientID)
	if err != nil {
		return nil, err
	}

	if in.MedicalHistory != nil {
		ap.MedicalHistory = *in.MedicalHistory
	}
	if in.Symptoms != nil {
		ap.Symptoms = *in.Symptoms
	}
	ap.UpdatedBy = in.PatientID

	if !in.changesSlot() {
		if err := uc.repo.UpdateDetails(ctx, ap); err != nil {
			return nil, err
		}
		uc.dispatch(ap, false)
		return ap, nil
	}

	status := domain.Status(ap.Status)
	if status.IsTerminal() {
		return nil, httperr.ErrInvalidTransition(ap.Status, ap.Status)
	}

	date, start, end := ap.AppointmentDate.String(), ap.StartMinute.String(), ap.EndMinute.String()
	if in.Date != nil {
		date = *in.Date
	}
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}

	d, iv, err := parseSlot(date, start, end)
	if err != nil {
		return nil, err
	}

	if err := uc.availability.mustBeFree(ctx, ap.DoctorID, d, iv, ap.ID); err != nil {
		return nil, err
	}

	if !domain.IsFuture(d, iv, uc.now()) {
		return nil, httperr.ErrInvalidTemporalRange()
	}

	ap.AppointmentDate = d
	ap.StartMinute = iv.Start
	ap.EndMinute = iv.End

	if err := uc.repo.UpdateIfFree(ctx, ap, status); err != nil {
		return nil, err
	}

	uc.dispatch(ap, true)
	return ap, nil
}

func (uc *UpdateAppointment) dispatch(ap *models.Appointment, slotChanged bool) {
	uc.audit.Dispatch(audit.Event{
		ActorID:  ap.UpdatedBy,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"slot_changed": slotChanged},
	})
}
