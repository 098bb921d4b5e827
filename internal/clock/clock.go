package clock

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
)

// Clock representa minutos desde a meia-noite, em [0, 1440).
type Clock int

const MinutesPerDay = 24 * 60

var inputLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
}

// Parse aceita "HH:MM" (24h) e "h:mm AM/PM" (12h, sem diferenciar caixa).
func Parse(s string) (Clock, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return 0, httperr.ErrValidation("invalid_time", "time is required")
	}

	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return Clock(t.Hour()*60 + t.Minute()), nil
		}
	}

	return 0, httperr.ErrValidation("invalid_time", fmt.Sprintf("invalid time %q", s))
}

// MustParse é usado apenas em testes e seeds.
func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func Of(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return httperr.ErrValidation("invalid_time", "time must be a string")
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// --------------------------------------------------
// gorm / database/sql
// --------------------------------------------------

func (c Clock) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*c = Clock(v)
	case int32:
		*c = Clock(v)
	case int:
		*c = Clock(v)
	case nil:
		*c = 0
	default:
		return fmt.Errorf("clock: cannot scan %T", src)
	}
	return nil
}
