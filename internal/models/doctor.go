package models

import "time"

type Doctor struct {
	Base

	Name            string     `gorm:"size:100;not null" json:"name"`
	Specialization  string     `gorm:"size:100;index" json:"specialization"`
	TotalExperience int        `json:"total_experience"`
	DateOfBirth     *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	City            string     `gorm:"size:100" json:"city"`
	Email           string     `gorm:"size:100" json:"email"`
	Mobile          string     `gorm:"size:20" json:"mobile"`
	AverageRating   float64    `gorm:"not null;default:0" json:"average_rating"`
	Availability    bool       `gorm:"not null" json:"availability"`
	PhotoURL        string     `gorm:"size:512" json:"photo_url,omitempty"`

	TimeSlots []DoctorTimeSlot `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"time_slots,omitempty"`
}
