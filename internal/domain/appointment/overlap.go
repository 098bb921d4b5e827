package appointment

import (
	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

// Interval é meio-aberto: [Start, End).
type Interval struct {
	Start clock.Clock `json:"start"`
	End   clock.Clock `json:"end"`
}

func NewInterval(start, end string) (Interval, error) {
	s, err := clock.Parse(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := clock.Parse(end)
	if err != nil {
		return Interval{}, err
	}
	iv := Interval{Start: s, End: e}
	return iv, iv.Validate()
}

func (iv Interval) Validate() error {
	if !iv.Start.Valid() || !iv.End.Valid() {
		return httperr.ErrValidation("invalid_time", "time out of range")
	}
	if iv.Start >= iv.End {
		return httperr.ErrValidation("invalid_interval", "start time must be before end time")
	}
	return nil
}

func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

// Overlaps é simétrico; intervalos encostados não se sobrepõem.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartMinute, End: ap.EndMinute}
}

// Blocks diz se o agendamento ainda ocupa a agenda.
func Blocks(ap *models.Appointment) bool {
	return !ap.IsDeleted && Status(ap.Status) != StatusCancelled
}

// FirstConflict devolve o primeiro agendamento bloqueante que colide com
// candidate, ignorando excludeID.
func FirstConflict(
	candidate Interval,
	existing []models.Appointment,
	excludeID string,
) *models.Appointment {
	for i := range existing {
		ap := &existing[i]
		if excludeID != "" && ap.ID == excludeID {
			continue
		}
		if !Blocks(ap) {
			continue
		}
		if Overlaps(candidate, IntervalOf(ap)) {
			return ap
		}
	}
	return nil
}
