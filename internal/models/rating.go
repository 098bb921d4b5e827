package models

type Rating struct {
	Base

	DoctorID      string `gorm:"size:36;not null;index" json:"doctor_id"`
	AppointmentID string `gorm:"size:36;not null;uniqueIndex" json:"appointment_id"`
	RatingValue   int    `gorm:"not null" json:"rating_value"`
	Comment       string `gorm:"size:1000" json:"comment"`
}
