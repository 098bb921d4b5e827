package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

var appointmentSort = map[string]string{
	"createdAt":       "created_at",
	"appointmentDate": "appointment_date",
	"startTime":       "start_minute",
	"status":          "status",
}

const appointmentDefaultOrder = "appointment_date DESC, start_minute DESC"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

// lockDoctor serializa escritas concorrentes para o mesmo médico.
func lockDoctor(tx *gorm.DB, doctorID string) error {
	var d models.Doctor
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND is_deleted = ?", doctorID, false).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound("doctor")
	}
	return err
}

func blocking(tx *gorm.DB, doctorID string, date clock.Date, excludeID string) *gorm.DB {
	q := tx.Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND appointment_date = ? AND status <> ? AND is_deleted = ?",
			doctorID, date, string(domain.StatusCancelled), false,
		)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func applyFilter(q *gorm.DB, f domain.Filter) *gorm.DB {
	q = q.Where("is_deleted = ?", false)
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		q = q.Where("appointment_date = ?", *f.Date)
	}
	return q
}

// writeErr converte a violação da exclusion constraint em SlotConflict.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrSlotConflict()
	}
	return httperr.ErrStore(op, err)
}

// --------------------------------------------------
// Doctor
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	doctorID string,
) (*models.Doctor, error) {

	var d models.Doctor
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", doctorID, false).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("doctor")
	}
	if err != nil {
		return nil, httperr.ErrStore("appointment.get_doctor", err)
	}
	return &d, nil
}

func (r *AppointmentGormRepository) GetDoctorTimeSlots(
	ctx context.Context,
	doctorID string,
) ([]models.DoctorTimeSlot, error) {

	var slots []models.DoctorTimeSlot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_minute ASC").
		Find(&slots).Error; err != nil {
		return nil, httperr.ErrStore("appointment.time_slots", err)
	}
	return slots, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlocking(
	ctx context.Context,
	doctorID string,
	date clock.Date,
	excludeID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := blocking(r.db.WithContext(ctx), doctorID, date, excludeID).
		Order("start_minute ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.ErrStore("appointment.list_blocking", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateIfFree(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctor(tx, ap.DoctorID); err != nil {
			return err
		}

		var existing []models.Appointment
		if err := blocking(tx, ap.DoctorID, ap.AppointmentDate, "").
			Find(&existing).Error; err != nil {
			return err
		}

		if domain.FirstConflict(domain.IntervalOf(ap), existing, "") != nil {
			return httperr.ErrSlotConflict()
		}

		return tx.Omit(clause.Associations).Create(ap).Error
	})

	return writeErr("appointment.create_if_free", err)
}

func (r *AppointmentGormRepository) UpdateIfFree(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctor(tx, ap.DoctorID); err != nil {
			return err
		}

		var current models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			Where("id = ? AND is_deleted = ?", ap.ID, false).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrNotFound("appointment")
			}
			return err
		}
		if current.Status != string(from) || from.IsTerminal() {
			return httperr.ErrInvalidTransition(current.Status, ap.Status)
		}

		var existing []models.Appointment
		if err := blocking(tx, ap.DoctorID, ap.AppointmentDate, ap.ID).
			Find(&existing).Error; err != nil {
			return err
		}

		if domain.FirstConflict(domain.IntervalOf(ap), existing, ap.ID) != nil {
			return httperr.ErrSlotConflict()
		}

		return tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", ap.ID, string(from)).
			Updates(map[string]any{
				"appointment_date": ap.AppointmentDate,
				"start_minute":     ap.StartMinute,
				"end_minute":       ap.EndMinute,
				"status":           ap.Status,
				"medical_history":  ap.MedicalHistory,
				"symptoms":         ap.Symptoms,
				"updated_by":       ap.UpdatedBy,
			}).Error
	})

	return writeErr("appointment.update_if_free", err)
}

// --------------------------------------------------
// Appointment (read / state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) get(
	ctx context.Context,
	q *gorm.DB,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := q.WithContext(ctx).Preload("Doctor").First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("appointment")
	}
	if err != nil {
		return nil, httperr.ErrStore("appointment.get", err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetForPatient(
	ctx context.Context,
	appointmentID string,
	patientID string,
) (*models.Appointment, error) {
	return r.get(ctx, r.db.Where(
		"id = ? AND patient_id = ? AND is_deleted = ?",
		appointmentID, patientID, false,
	))
}

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {
	return r.get(ctx, r.db.Where("id = ? AND is_deleted = ?", appointmentID, false))
}

func (r *AppointmentGormRepository) SaveTransition(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ? AND is_deleted = ?", ap.ID, string(from), false).
		Updates(map[string]any{
			"status":       ap.Status,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_by":   ap.UpdatedBy,
		})
	if res.Error != nil {
		return httperr.ErrStore("appointment.save_transition", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrInvalidTransition(string(from), ap.Status)
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateDetails(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND is_deleted = ?", ap.ID, false).
		Updates(map[string]any{
			"medical_history": ap.MedicalHistory,
			"symptoms":        ap.Symptoms,
			"updated_by":      ap.UpdatedBy,
		})
	if res.Error != nil {
		return httperr.ErrStore("appointment.update_details", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("appointment")
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	appointmentID string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", appointmentID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return httperr.ErrStore("appointment.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("appointment")
	}
	return nil
}

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	f domain.Filter,
	opts pagination.Options,
) ([]models.Appointment, int64, error) {

	opts = opts.Normalize()

	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	var apps []models.Appointment
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Appointment{}), f).
		Preload("Doctor").
		Order(opts.OrderBy(appointmentSort, appointmentDefaultOrder)).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		Find(&apps).Error; err != nil {
		return nil, 0, httperr.ErrStore("appointment.list", err)
	}

	return apps, total, nil
}

func (r *AppointmentGormRepository) Count(
	ctx context.Context,
	f domain.Filter,
) (int64, error) {

	var n int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Appointment{}), f).
		Count(&n).Error; err != nil {
		return 0, httperr.ErrStore("appointment.count", err)
	}
	return n, nil
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

func (r *AppointmentGormRepository) ListExpired(
	ctx context.Context,
	today clock.Date,
	nowMinute clock.Clock,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND is_deleted = ?", domain.OpenStatusStrings(), false).
		Where(
			"appointment_date < ? OR (appointment_date = ? AND end_minute <= ?)",
			today, today, nowMinute,
		).
		Order("appointment_date ASC, end_minute ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.ErrStore("appointment.list_expired", err)
	}
	return apps, nil
}

func (r *AppointmentGormRepository) MarkCompleted(
	ctx context.Context,
	appointmentID string,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", appointmentID, domain.OpenStatusStrings()).
		Updates(map[string]any{
			"status":       string(domain.StatusCompleted),
			"completed_at": at,
		})
	if res.Error != nil {
		return false, httperr.ErrStore("appointment.mark_completed", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
