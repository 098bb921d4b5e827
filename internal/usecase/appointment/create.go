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

var errSlotConflict = httperr.ErrSlotConflict()

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PatientID string
	DoctorID  string

	Date      string
	StartTime string
	EndTime   string

	MedicalHistory string
	Symptoms       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo         domain.Repository
	availability *CheckAvailability
	audit        *audit.Dispatcher
	metrics      *metrics.SchedulerMetrics
	now          func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *CreateAppointment {
	return &CreateAppointment{
		repo:         repo,
		availability: NewCheckAvailability(repo),
		audit:        audit,
		metrics:      m,
		now:          timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {

	defer func() { uc.metrics.ObserveBooking(bookingResult(err)) }()

	// --------------------------------------------------
	// 1️⃣ Formato
	// --------------------------------------------------
	if err := requireID("patient_id", in.PatientID); err != nil {
		return nil, err
	}
	if err := requireID("doctor_id", in.DoctorID); err != nil {
		return nil, err
	}

	date, iv, err := parseSlot(in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, httperr.ErrNotFound("doctor")
	}

	// --------------------------------------------------
	// 2️⃣ Disponibilidade
	// --------------------------------------------------
	if err := uc.availability.mustBeFree(ctx, in.DoctorID, date, iv, ""); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Somente horários futuros
	// --------------------------------------------------
	if !domain.IsFuture(date, iv, uc.now()) {
		return nil, httperr.ErrInvalidTemporalRange()
	}

	// --------------------------------------------------
	// 4️⃣ Inserção condicional
	// --------------------------------------------------
	ap = &models.Appointment{
		Base: models.Base{
			CreatedBy: in.PatientID,
			UpdatedBy: in.PatientID,
			IsActive:  true,
		},
		DoctorID:        in.DoctorID,
		PatientID:       in.PatientID,
		AppointmentDate: date,
		StartMinute:     iv.Start,
		EndMinute:       iv.End,
		Status:          string(domain.InitialStatus()),
		MedicalHistory:  in.MedicalHistory,
		Symptoms:        in.Symptoms,
	}

	if err := uc.repo.CreateIfFree(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.PatientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"doctor_id": ap.DoctorID,
			"date":      date.String(),
			"start":     iv.Start.String(),
			"end":       iv.End.String(),
		},
	})

	return ap, nil
}
