package dto

import (
	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID              string      `json:"id"`
	DoctorID        string      `json:"doctor_id"`
	DoctorName      string      `json:"doctor_name"`
	Specialization  string      `json:"specialization"`
	AppointmentDate clock.Date  `json:"appointment_date"`
	StartTime       clock.Clock `json:"start_time"`
	EndTime         clock.Clock `json:"end_time"`
	Status          string      `json:"status"`
	Symptoms        string      `json:"symptoms"`
}

func AppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		item := AppointmentListDTO{
			ID:              ap.ID,
			DoctorID:        ap.DoctorID,
			AppointmentDate: ap.AppointmentDate,
			StartTime:       ap.StartMinute,
			EndTime:         ap.EndMinute,
			Status:          ap.Status,
			Symptoms:        ap.Symptoms,
		}
		if ap.Doctor != nil {
			item.DoctorName = ap.Doctor.Name
			item.Specialization = ap.Doctor.Specialization
		}
		out = append(out, item)
	}
	return out
}
