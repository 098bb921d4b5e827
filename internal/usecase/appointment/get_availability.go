package appointment

import (
	"context"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
)

// GetAvailability lista os horários-modelo do médico ainda livres na data.
type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	doctorID string,
	date string,
) ([]domain.TimeSlot, error) {

	d, err := clock.ParseDate(date)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive || !doctor.Availability {
		return []domain.TimeSlot{}, nil
	}

	templates, err := uc.repo.GetDoctorTimeSlots(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	booked, err := uc.repo.ListBlocking(ctx, doctorID, d, "")
	if err != nil {
		return nil, err
	}

	return domain.FreeSlots(templates, d, booked), nil
}
