package appointment

import (
	"time"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Reschedule(ap *models.Appointment, date clock.Date, iv Interval) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusRescheduled)
	ap.AppointmentDate = date
	ap.StartMinute = iv.Start
	ap.EndMinute = iv.End
	return nil
}

// StartsAt é o início do agendamento no fuso da clínica.
func StartsAt(date clock.Date, iv Interval, loc *time.Location) time.Time {
	return date.At(iv.Start, loc)
}

// IsFuture exige início estritamente depois de now.
func IsFuture(date clock.Date, iv Interval, now time.Time) bool {
	return StartsAt(date, iv, now.Location()).After(now)
}

// IsExpired: dia anterior a hoje, ou hoje com término já alcançado.
func IsExpired(ap *models.Appointment, now time.Time) bool {
	today := clock.DateOf(now)
	if ap.AppointmentDate.Before(today) {
		return true
	}
	return ap.AppointmentDate.Equal(today) && ap.EndMinute <= clock.Of(now)
}
