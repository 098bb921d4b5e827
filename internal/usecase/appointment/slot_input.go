package appointment

import (
	"strings"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
)

// parseSlot valida o formato de data e horários e devolve a forma canônica.
func parseSlot(date, start, end string) (clock.Date, domain.Interval, error) {
	d, err := clock.ParseDate(date)
	if err != nil {
		return clock.Date{}, domain.Interval{}, err
	}

	iv, err := domain.NewInterval(start, end)
	if err != nil {
		return clock.Date{}, domain.Interval{}, err
	}

	return d, iv, nil
}

func requireID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return httperr.ErrValidation("missing_"+field, field+" is required")
	}
	return nil
}

func bookingResult(err error) string {
	if err == nil {
		return "created"
	}
	return string(httperr.KindOf(err))
}
