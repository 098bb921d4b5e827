package rating

import (
	"context"
	"math"

	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

const (
	MinValue = 1
	MaxValue = 5
)

func ValidateValue(v int) error {
	if v < MinValue || v > MaxValue {
		return httperr.ErrValidation("invalid_rating_value", "rating must be between 1 and 5")
	}
	return nil
}

// Round1 arredonda para uma casa decimal.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Mean é a média arredondada; zero quando não há notas.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return Round1(float64(sum) / float64(len(values)))
}

type Repository interface {
	GetAppointmentForPatient(
		ctx context.Context,
		appointmentID string,
		patientID string,
	) (*models.Appointment, error)

	// GetByAppointment devolve (nil, nil) quando não existe nota.
	GetByAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Rating, error)

	// CreateAndRecompute grava a nota e recalcula a média do médico na mesma
	// transação, devolvendo a nova média.
	CreateAndRecompute(
		ctx context.Context,
		r *models.Rating,
	) (float64, error)
}
