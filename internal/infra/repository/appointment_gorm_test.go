package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func candidate(t *testing.T) *models.Appointment {
	t.Helper()
	d, err := clock.ParseDate("2030-06-03")
	require.NoError(t, err)

	return &models.Appointment{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: d,
		StartMinute:     clock.MustParse("10:00"),
		EndMinute:       clock.MustParse("10:30"),
		Status:          string(domain.StatusScheduled),
	}
}

func TestCreateIfFreeRejectsOverlapInsideTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE doctor_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_minute", "end_minute", "status", "is_deleted"}).
			AddRow("other", int64(615), int64(645), "scheduled", false))
	mock.ExpectRollback()

	err := repo.CreateIfFree(context.Background(), candidate(t))

	assert.True(t, httperr.IsKind(err, httperr.KindSlotConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfFreeUnknownDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.CreateIfFree(context.Background(), candidate(t))

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompletedIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)
	at := time.Date(2030, 6, 3, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "appointments" SET .* WHERE id = .* AND status IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "appointments" SET .* WHERE id = .* AND status IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkCompleted(context.Background(), "a-1", at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkCompleted(context.Background(), "a-1", at)
	require.NoError(t, err)
	assert.False(t, ok, "already moved by another process")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransitionDetectsConcurrentChange(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectExec(`UPDATE "appointments" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ap := &models.Appointment{Base: models.Base{ID: "a-1"}, Status: string(domain.StatusCancelled)}
	err := repo.SaveTransition(context.Background(), ap, domain.StatusScheduled)

	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestListExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE \(status IN .*\) AND \(appointment_date < .* OR \(appointment_date = .* AND end_minute <= .*\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("a-1", "scheduled").
			AddRow("a-2", "rescheduled"))

	today, _ := clock.ParseDate("2030-06-03")
	apps, err := repo.ListExpired(context.Background(), today, clock.MustParse("12:00"))
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestGetForPatientNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetForPatient(context.Background(), "a-1", "someone-else")
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestUpdateIfFreeRejectsStatusChangedSinceRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectQuery(`SELECT "id","status" FROM "appointments" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("a-1", "rescheduled"))
	mock.ExpectRollback()

	ap := candidate(t)
	ap.ID = "a-1"
	err := repo.UpdateIfFree(context.Background(), ap, domain.StatusScheduled)

	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIfFreeGuardsStatusInWrite(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectQuery(`SELECT "id","status" FROM "appointments" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("a-1", "scheduled"))
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE doctor_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE "appointments" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ap := candidate(t)
	ap.ID = "a-1"
	require.NoError(t, repo.UpdateIfFree(context.Background(), ap, domain.StatusScheduled))
	assert.NoError(t, mock.ExpectationsWereMet())
}
