package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/rating"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

func (r *RatingGormRepository) GetAppointmentForPatient(
	ctx context.Context,
	appointmentID string,
	patientID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND patient_id = ? AND is_deleted = ?", appointmentID, patientID, false).
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("appointment")
	}
	if err != nil {
		return nil, httperr.ErrStore("rating.get_appointment", err)
	}
	return &ap, nil
}

func (r *RatingGormRepository) GetByAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Rating, error) {

	var rt models.Rating
	err := r.db.WithContext(ctx).
		Where("appointment_id = ? AND is_deleted = ?", appointmentID, false).
		First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, httperr.ErrStore("rating.get_by_appointment", err)
	}
	return &rt, nil
}

func (r *RatingGormRepository) CreateAndRecompute(
	ctx context.Context,
	rt *models.Rating,
) (float64, error) {

	var avg float64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctor(tx, rt.DoctorID); err != nil {
			return err
		}

		if err := tx.Create(rt).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrDuplicateRating()
			}
			return err
		}

		// a média é lida depois do insert, dentro da mesma transação
		var raw float64
		if err := tx.Model(&models.Rating{}).
			Select("COALESCE(AVG(rating_value), 0)").
			Where("doctor_id = ? AND is_deleted = ?", rt.DoctorID, false).
			Scan(&raw).Error; err != nil {
			return err
		}
		avg = domain.Round1(raw)

		return tx.Model(&models.Doctor{}).
			Where("id = ?", rt.DoctorID).
			Update("average_rating", avg).Error
	})
	if err != nil {
		return 0, httperr.ErrStore("rating.create", err)
	}

	return avg, nil
}

// Compile-time check
var _ domain.Repository = (*RatingGormRepository)(nil)
