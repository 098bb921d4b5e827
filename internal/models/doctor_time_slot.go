package models

import (
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
)

// DoctorTimeSlot é o modelo semanal de atendimento de um médico.
type DoctorTimeSlot struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID string `gorm:"size:36;not null;index:idx_slot_doctor_weekday" json:"doctor_id"`

	Weekday int `gorm:"not null;index:idx_slot_doctor_weekday" json:"weekday"`

	StartMinute clock.Clock `gorm:"type:integer;not null" json:"start_time"`
	EndMinute   clock.Clock `gorm:"type:integer;not null" json:"end_time"`
	IsAvailable bool        `gorm:"not null" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
