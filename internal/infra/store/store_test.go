package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
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

func TestFindOneNotFoundReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	s := New[models.Doctor](db, "doctor", nil)

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := s.FindOne(context.Background(), Query{"id": "missing", "is_deleted": false})
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOne(t *testing.T) {
	db, mock := newMockDB(t)
	s := New[models.Doctor](db, "doctor", nil)

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialization"}).
			AddRow("d-1", "Dr. House", "Diagnostics"))

	rec, err := s.FindOne(context.Background(), Query{"id": "d-1"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Dr. House", rec.Name)
}

func TestFindOneWrapsFailures(t *testing.T) {
	db, mock := newMockDB(t)
	s := New[models.Doctor](db, "doctor", nil)

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).WillReturnError(errors.New("conn reset"))

	_, err := s.FindOne(context.Background(), Query{"id": "d-1"})
	var se *httperr.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "doctor.find_one", se.Op)
}

func TestPaginate(t *testing.T) {
	db, mock := newMockDB(t)
	s := New[models.Address](db, "address", map[string]string{"city": "city"})

	mock.ExpectQuery(`SELECT count\(\*\) FROM "addresses"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "addresses" .*ORDER BY city DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "city"}).
			AddRow("a-6", "Recife").
			AddRow("a-7", "Natal"))

	page, err := s.Paginate(context.Background(), Query{"user_id": "u-1"}, pagination.Options{Page: 2, Limit: 5, Sort: "-city"})
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(12), page.Paginator.ItemCount)
	assert.Equal(t, 3, page.Paginator.PageCount)
	assert.Equal(t, 6, page.Paginator.SlNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteReportsMiss(t *testing.T) {
	db, mock := newMockDB(t)
	s := New[models.Address](db, "address", nil)

	mock.ExpectExec(`UPDATE "addresses" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.SoftDelete(context.Background(), Query{"id": "x", "user_id": "u-1"}, models.SoftDeleteColumns("u-1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteOneRequiresFilter(t *testing.T) {
	db, _ := newMockDB(t)
	s := New[models.Doctor](db, "doctor", nil)

	_, err := s.DeleteOne(context.Background(), nil)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}
