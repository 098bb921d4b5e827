package appointment

import (
	"sort"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

type AvailabilityInput struct {
	DoctorID  string
	Date      clock.Date
	Interval  Interval
	ExcludeID string
}

type TimeSlot struct {
	Start clock.Clock `json:"start"`
	End   clock.Clock `json:"end"`
}

// TemplatesFor filtra os modelos semanais ativos do dia da semana.
func TemplatesFor(templates []models.DoctorTimeSlot, date clock.Date) []models.DoctorTimeSlot {
	weekday := int(date.Weekday())

	var out []models.DoctorTimeSlot
	for _, t := range templates {
		if t.Weekday == weekday && t.IsAvailable && t.StartMinute < t.EndMinute {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out
}

// FreeSlots devolve os modelos do dia que não colidem com agendamentos
// bloqueantes.
func FreeSlots(
	templates []models.DoctorTimeSlot,
	date clock.Date,
	booked []models.Appointment,
) []TimeSlot {
	slots := []TimeSlot{}

	for _, t := range TemplatesFor(templates, date) {
		iv := Interval{Start: t.StartMinute, End: t.EndMinute}
		if FirstConflict(iv, booked, "") != nil {
			continue
		}
		slots = append(slots, TimeSlot{Start: iv.Start, End: iv.End})
	}

	return slots
}
