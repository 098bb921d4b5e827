package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

func TestFreeSlots(t *testing.T) {
	// 2030-05-13 é segunda-feira.
	day := mustDate(t, "2030-05-13")

	templates := []models.DoctorTimeSlot{
		{Weekday: 1, StartMinute: clock.MustParse("10:00"), EndMinute: clock.MustParse("10:30"), IsAvailable: true},
		{Weekday: 1, StartMinute: clock.MustParse("09:00"), EndMinute: clock.MustParse("09:30"), IsAvailable: true},
		{Weekday: 1, StartMinute: clock.MustParse("11:00"), EndMinute: clock.MustParse("11:30"), IsAvailable: false},
		{Weekday: 2, StartMinute: clock.MustParse("09:00"), EndMinute: clock.MustParse("09:30"), IsAvailable: true},
	}

	booked := []models.Appointment{
		{StartMinute: clock.MustParse("10:15"), EndMinute: clock.MustParse("10:45"), Status: "scheduled"},
	}

	slots := FreeSlots(templates, day, booked)

	assert.Equal(t, []TimeSlot{{Start: clock.MustParse("09:00"), End: clock.MustParse("09:30")}}, slots)
}

func TestFreeSlotsEmptyDay(t *testing.T) {
	slots := FreeSlots(nil, mustDate(t, "2030-05-12"), nil)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}
