package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

func TestCheckAvailabilityQuery(t *testing.T) {
	repo := newMemoryRepo(activeDoctor("D1"))
	_, err := book(t, newCreate(repo), "2099-01-01", "09:00", "09:30")
	require.NoError(t, err)

	uc := NewCheckAvailability(repo)
	ctx := context.Background()

	free, err := uc.Query(ctx, "D1", "2099-01-01", "09:29", "09:40")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = uc.Query(ctx, "D1", "2099-01-01", "09:30", "09:40")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = uc.Query(ctx, "D1", "2099-01-02", "09:00", "09:30")
	require.NoError(t, err)
	assert.True(t, free, "other dates never conflict")

	_, err = uc.Query(ctx, "ghost", "2099-01-01", "09:00", "09:30")
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestCheckAvailabilityExcludesOwnRecord(t *testing.T) {
	repo := newMemoryRepo(activeDoctor("D1"))
	ap, err := book(t, newCreate(repo), "2099-01-01", "09:00", "09:30")
	require.NoError(t, err)

	d, _ := clock.ParseDate("2099-01-01")
	free, err := NewCheckAvailability(repo).Execute(context.Background(), domain.AvailabilityInput{
		DoctorID:  "D1",
		Date:      d,
		Interval:  domain.Interval{Start: clock.MustParse("09:00"), End: clock.MustParse("09:30")},
		ExcludeID: ap.ID,
	})
	require.NoError(t, err)
	assert.True(t, free)
}

func TestGetAvailabilityFreeSlots(t *testing.T) {
	repo := newMemoryRepo(activeDoctor("D1"))
	// 2099-01-01 é quinta-feira
	repo.slots = []models.DoctorTimeSlot{
		{DoctorID: "D1", Weekday: 4, StartMinute: clock.MustParse("09:00"), EndMinute: clock.MustParse("09:30"), IsAvailable: true},
		{DoctorID: "D1", Weekday: 4, StartMinute: clock.MustParse("09:30"), EndMinute: clock.MustParse("10:00"), IsAvailable: true},
	}
	_, err := book(t, newCreate(repo), "2099-01-01", "09:00", "09:30")
	require.NoError(t, err)

	slots, err := NewGetAvailability(repo).Execute(context.Background(), "D1", "2099-01-01")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:30", slots[0].Start.String())
}

func TestListAppointments(t *testing.T) {
	repo := newMemoryRepo(activeDoctor("D1"), activeDoctor("D2"))
	create := newCreate(repo)

	for _, start := range []string{"09:00", "10:00", "11:00"} {
		_, err := book(t, create, "2099-01-01", start, (clock.MustParse(start) + 30).String())
		require.NoError(t, err)
	}
	_, err := create.Execute(context.Background(), CreateAppointmentInput{
		PatientID: "p2", DoctorID: "D2", Date: "2099-01-01", StartTime: "09:00", EndTime: "09:30",
	})
	require.NoError(t, err)

	uc := NewListAppointments(repo)

	out, err := uc.Execute(context.Background(), ListAppointmentsInput{
		PatientID: "p1",
		Options:   pagination.Options{Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Page)
	assert.Len(t, out.Page.Data, 2)
	assert.Equal(t, int64(3), out.Page.Paginator.ItemCount)
	assert.Equal(t, 2, out.Page.Paginator.PageCount)
	assert.Equal(t, "Dr D1", out.Page.Data[0].DoctorName)

	count, err := uc.Execute(context.Background(), ListAppointmentsInput{PatientID: "p1", IsCountOnly: true, DoctorID: "D2"})
	require.NoError(t, err)
	require.NotNil(t, count.TotalRecords)
	assert.Equal(t, int64(0), *count.TotalRecords, "other patients' records are never visible")

	_, err = uc.Execute(context.Background(), ListAppointmentsInput{PatientID: "p1", Status: "pending"})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}
