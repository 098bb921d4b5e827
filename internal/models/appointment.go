package models

import (
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
)

type Appointment struct {
	Base

	DoctorID string  `gorm:"size:36;not null;index:idx_appointment_doctor_date" json:"doctor_id"`
	Doctor   *Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"doctor,omitempty"`

	PatientID string `gorm:"size:36;not null;index" json:"patient_id"`
	Patient   *User  `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`

	AppointmentDate clock.Date  `gorm:"type:date;not null;index:idx_appointment_doctor_date" json:"appointment_date"`
	StartMinute     clock.Clock `gorm:"type:integer;not null" json:"start_time"`
	EndMinute       clock.Clock `gorm:"type:integer;not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'scheduled';index" json:"status"`

	MedicalHistory string     `gorm:"type:text" json:"medical_history"`
	Symptoms       string     `gorm:"type:text" json:"symptoms"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}
