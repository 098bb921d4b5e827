package rating

import (
	"context"

	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/rating"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

// GetRatingByAppointment só devolve a nota para o dono da consulta.
type GetRatingByAppointment struct {
	repo domain.Repository
}

func NewGetRatingByAppointment(repo domain.Repository) *GetRatingByAppointment {
	return &GetRatingByAppointment{repo: repo}
}

func (uc *GetRatingByAppointment) Execute(
	ctx context.Context,
	patientID string,
	appointmentID string,
) (*models.Rating, error) {

	ap, err := uc.repo.GetAppointmentForPatient(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}

	r, err := uc.repo.GetByAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, httperr.ErrNotFound("rating")
	}
	return r, nil
}
