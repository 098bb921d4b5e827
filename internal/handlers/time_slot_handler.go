package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

// TimeSlotHandler mantém os horários-modelo semanais do médico.
type TimeSlotHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewTimeSlotHandler(db *gorm.DB, d *audit.Dispatcher) *TimeSlotHandler {
	return &TimeSlotHandler{db: db, audit: d}
}

type TimeSlotConfig struct {
	Weekday     *int   `json:"weekday" binding:"required,min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required,clock"`
	EndTime     string `json:"end_time" binding:"required,clock"`
	IsAvailable *bool  `json:"is_available"`
}

type TimeSlotsUpdateRequest struct {
	Slots []TimeSlotConfig `json:"slots" binding:"dive"`
}

func (h *TimeSlotHandler) Get(c *gin.Context) {
	var slots []models.DoctorTimeSlot
	if err := h.db.WithContext(c.Request.Context()).
		Where("doctor_id = ?", c.Param("id")).
		Order("weekday ASC, start_minute ASC").
		Find(&slots).Error; err != nil {

		httperr.Respond(c, httperr.ErrStore("time_slots.list", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": slots})
}

// Replace troca todos os horários do médico numa transação.
func (h *TimeSlotHandler) Replace(c *gin.Context) {
	doctorID := c.Param("id")

	var req TimeSlotsUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	toCreate := make([]models.DoctorTimeSlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		iv, err := domain.NewInterval(s.StartTime, s.EndTime)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		available := true
		if s.IsAvailable != nil {
			available = *s.IsAvailable
		}

		toCreate = append(toCreate, models.DoctorTimeSlot{
			DoctorID:    doctorID,
			Weekday:     *s.Weekday,
			StartMinute: iv.Start,
			EndMinute:   iv.End,
			IsAvailable: available,
		})
	}

	if overlapping(toCreate) {
		httperr.BadRequest(c, "overlapping_time_slots", "Horários do mesmo dia se sobrepõem.")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND is_deleted = ?", doctorID, false).
			First(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrNotFound("doctor")
			}
			return err
		}

		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.DoctorTimeSlot{}).Error; err != nil {
			return err
		}

		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, httperr.ErrStore("time_slots.replace", err))
		return
	}

	writeAudit(h.audit, c, "doctor_time_slots_replaced", "doctor", doctorID, map[string]any{"count": len(toCreate)})

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": toCreate})
}

func overlapping(slots []models.DoctorTimeSlot) bool {
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Weekday != slots[j].Weekday {
				continue
			}
			a := domain.Interval{Start: slots[i].StartMinute, End: slots[i].EndMinute}
			b := domain.Interval{Start: slots[j].StartMinute, End: slots[j].EndMinute}
			if domain.Overlaps(a, b) {
				return true
			}
		}
	}
	return false
}
