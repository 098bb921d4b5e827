package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
}

func TestSetClinicIgnoresInvalid(t *testing.T) {
	t.Cleanup(func() { SetClinic(DefaultTimezone) })

	SetClinic("Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", Clinic().String())

	SetClinic("garbage")
	assert.Equal(t, "Asia/Tokyo", Clinic().String())
	assert.Equal(t, "Asia/Tokyo", Now().Location().String())
}
