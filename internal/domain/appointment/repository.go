package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

// Filter são os filtros aceitos na listagem; PatientID é sempre o chamador.
type Filter struct {
	PatientID string
	DoctorID  string
	Status    string
	Date      *clock.Date
}

type Repository interface {
	// -------- Doctor --------
	GetDoctor(
		ctx context.Context,
		doctorID string,
	) (*models.Doctor, error)

	GetDoctorTimeSlots(
		ctx context.Context,
		doctorID string,
	) ([]models.DoctorTimeSlot, error)

	// -------- Availability --------
	ListBlocking(
		ctx context.Context,
		doctorID string,
		date clock.Date,
		excludeID string,
	) ([]models.Appointment, error)

	// -------- Appointment (create / conflict) --------

	// CreateIfFree insere somente se nenhum agendamento bloqueante do médico
	// colidir com ap, de forma atômica.
	CreateIfFree(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateIfFree persiste ap (data, horário, status, textos) com a mesma
	// garantia, ignorando o próprio registro. Falha com InvalidTransition
	// quando o status gravado já não é from.
	UpdateIfFree(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// -------- Appointment (read / state change) --------
	GetForPatient(
		ctx context.Context,
		appointmentID string,
		patientID string,
	) (*models.Appointment, error)

	GetByID(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	// SaveTransition grava status e carimbos apenas se o registro ainda
	// estiver em from; caso contrário InvalidTransition.
	SaveTransition(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	UpdateDetails(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		appointmentID string,
	) error

	List(
		ctx context.Context,
		f Filter,
		opts pagination.Options,
	) ([]models.Appointment, int64, error)

	Count(
		ctx context.Context,
		f Filter,
	) (int64, error)

	// -------- Lifecycle --------
	ListExpired(
		ctx context.Context,
		today clock.Date,
		nowMinute clock.Clock,
	) ([]models.Appointment, error)

	// MarkCompleted só altera registros ainda abertos; false quando outro
	// processo já mudou o status.
	MarkCompleted(
		ctx context.Context,
		appointmentID string,
		at time.Time,
	) (bool, error)
}
