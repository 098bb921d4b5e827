package timezone

import (
	"sync"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var (
	mu       sync.RWMutex
	clinicTZ = DefaultTimezone
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// SetClinic define o fuso da clínica; valores inválidos mantêm o padrão.
func SetClinic(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	clinicTZ = tz
	mu.Unlock()
}

func Clinic() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return Location(clinicTZ)
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Clinic())
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
