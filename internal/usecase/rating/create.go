package rating

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/rating"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

type CreateRatingInput struct {
	PatientID     string
	AppointmentID string
	RatingValue   int
	Comment       string
}

type CreateRatingOutput struct {
	Rating        *models.Rating `json:"rating"`
	AverageRating float64        `json:"average_rating"`
}

type CreateRating struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulerMetrics
}

func NewCreateRating(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *CreateRating {
	return &CreateRating{repo: repo, audit: audit, metrics: m}
}

func (uc *CreateRating) Execute(
	ctx context.Context,
	in CreateRatingInput,
) (*CreateRatingOutput, error) {

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	if strings.TrimSpace(in.AppointmentID) == "" {
		return nil, httperr.ErrValidation("missing_appointment_id", "appointment_id is required")
	}
	if err := domain.ValidateValue(in.RatingValue); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Consulta pertence ao paciente
	// --------------------------------------------------
	ap, err := uc.repo.GetAppointmentForPatient(ctx, in.AppointmentID, in.PatientID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Uma nota por consulta
	// --------------------------------------------------
	existing, err := uc.repo.GetByAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.ErrDuplicateRating()
	}

	// --------------------------------------------------
	// 4️⃣ Grava e recalcula a média
	// --------------------------------------------------
	r := &models.Rating{
		Base: models.Base{
			CreatedBy: in.PatientID,
			UpdatedBy: in.PatientID,
			IsActive:  true,
		},
		DoctorID:      ap.DoctorID,
		AppointmentID: ap.ID,
		RatingValue:   in.RatingValue,
		Comment:       strings.TrimSpace(in.Comment),
	}

	avg, err := uc.repo.CreateAndRecompute(ctx, r)
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveRating(r.RatingValue)
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.PatientID,
		Action:   "rating_created",
		Entity:   "rating",
		EntityID: r.ID,
		Metadata: map[string]any{
			"doctor_id":      r.DoctorID,
			"appointment_id": r.AppointmentID,
			"average_rating": avg,
		},
	})

	return &CreateRatingOutput{Rating: r, AverageRating: avg}, nil
}
