package db

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

func newMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestSeedAdminNotConfigured(t *testing.T) {
	gdb, mock := newMock(t)

	require.NoError(t, SeedAdmin(context.Background(), gdb, &config.Config{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedAdminAlreadyPresent(t *testing.T) {
	gdb, mock := newMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).
			AddRow("a1", "admin@clinic.example", "admin"))

	err := SeedAdmin(context.Background(), gdb, &config.Config{
		AdminEmail:    " Admin@Clinic.Example ",
		AdminPassword: "secret",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMinuteColumnsAreInteger(t *testing.T) {
	for _, model := range []any{&models.Appointment{}, &models.DoctorTimeSlot{}} {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		for _, col := range []string{"start_minute", "end_minute"} {
			f := s.LookUpField(col)
			require.NotNil(t, f, col)
			assert.Equal(t, schema.DataType("integer"), f.DataType, "%s.%s", s.Table, col)
		}
	}
}

func TestInstallOverlapGuard(t *testing.T) {
	gdb, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE EXTENSION IF NOT EXISTS btree_gist`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`EXCLUDE USING gist \(\s+doctor_id WITH =,\s+appointment_date WITH =,\s+` +
		regexp.QuoteMeta(`int4range(start_minute, end_minute) WITH &&`) +
		`\s+\) WHERE \(status <> 'cancelled' AND NOT is_deleted\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.True(t, installOverlapGuard(gdb))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstallOverlapGuardWithoutExtension(t *testing.T) {
	gdb, mock := newMock(t)

	mock.ExpectExec(`CREATE EXTENSION`).WillReturnError(errors.New("permission denied"))

	assert.False(t, installOverlapGuard(gdb))
	assert.NoError(t, mock.ExpectationsWereMet())
}
