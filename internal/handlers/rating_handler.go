package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/rating"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/usecase/rating"
)

type RatingHandler struct {
	create *rating.CreateRating
	get    *rating.GetRatingByAppointment
}

func NewRatingHandler(repo domain.Repository, d *audit.Dispatcher, m *metrics.SchedulerMetrics) *RatingHandler {
	return &RatingHandler{
		create: rating.NewCreateRating(repo, d, m),
		get:    rating.NewGetRatingByAppointment(repo),
	}
}

type CreateRatingRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment" binding:"max=1000"`
}

func (h *RatingHandler) Create(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.create.Execute(c.Request.Context(), rating.CreateRatingInput{
		PatientID:     patientID,
		AppointmentID: req.AppointmentID,
		RatingValue:   req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func (h *RatingHandler) GetByAppointment(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	r, err := h.get.Execute(c.Request.Context(), patientID, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}
