package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

func TestGetByAppointmentMissingIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rt, err := repo.GetByAppointment(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Nil(t, rt)
}

func TestCreateAndRecomputeLocksDoctorFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.CreateAndRecompute(context.Background(), &models.Rating{DoctorID: "gone", AppointmentID: "a-1", RatingValue: 4})

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
