package appointment

import (
	"context"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

// DeleteAppointment remove o registro fisicamente; só o dono pode.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	patientID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetForPatient(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  patientID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
