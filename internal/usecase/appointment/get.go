package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	patientID string,
	appointmentID string,
) (*models.Appointment, error) {
	return uc.repo.GetForPatient(ctx, appointmentID, patientID)
}
