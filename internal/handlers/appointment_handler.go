package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
	"github.com/BruksfildServices01/doctor-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *appointment.CreateAppointment
	list       *appointment.ListAppointments
	get        *appointment.GetAppointment
	update     *appointment.UpdateAppointment
	reschedule *appointment.RescheduleAppointment
	cancel     *appointment.CancelAppointment
	complete   *appointment.CompleteAppointment
	remove     *appointment.DeleteAppointment
}

func NewAppointmentHandler(
	repo domain.Repository,
	d *audit.Dispatcher,
	m *metrics.SchedulerMetrics,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     appointment.NewCreateAppointment(repo, d, m),
		list:       appointment.NewListAppointments(repo),
		get:        appointment.NewGetAppointment(repo),
		update:     appointment.NewUpdateAppointment(repo, d),
		reschedule: appointment.NewRescheduleAppointment(repo, d, m),
		cancel:     appointment.NewCancelAppointment(repo, d, m),
		complete:   appointment.NewCompleteAppointment(repo, d, m),
		remove:     appointment.NewDeleteAppointment(repo, d),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctor_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	MedicalHistory  string `json:"medical_history"`
	Symptoms        string `json:"symptoms"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *string `json:"appointment_date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	MedicalHistory  *string `json:"medical_history,omitempty"`
	Symptoms        *string `json:"symptoms,omitempty"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
}

type AppointmentFilter struct {
	DoctorID        string `json:"doctorId"`
	Status          string `json:"status"`
	AppointmentDate string `json:"appointmentDate"`
}

// ListAppointmentsRequest é o corpo do POST /appointments/list.
type ListAppointmentsRequest struct {
	Filter      AppointmentFilter  `json:"filter"`
	Options     pagination.Options `json:"options"`
	IsCountOnly bool               `json:"isCountOnly"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		PatientID:      patientID,
		DoctorID:       req.DoctorID,
		Date:           req.AppointmentDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		MedicalHistory: req.MedicalHistory,
		Symptoms:       req.Symptoms,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

// List atende GET com query string.
func (h *AppointmentHandler) List(c *gin.Context) {
	countOnly, _ := strconv.ParseBool(c.DefaultQuery("is_count_only", "false"))

	h.runList(c, ListAppointmentsRequest{
		Filter: AppointmentFilter{
			DoctorID:        c.Query("doctor_id"),
			Status:          c.Query("status"),
			AppointmentDate: c.Query("appointment_date"),
		},
		Options:     pagination.FromQuery(c),
		IsCountOnly: countOnly,
	})
}

// Search atende POST /list com filtro e opções no corpo.
func (h *AppointmentHandler) Search(c *gin.Context) {
	var req ListAppointmentsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.runList(c, req)
}

func (h *AppointmentHandler) runList(c *gin.Context, req ListAppointmentsRequest) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	out, err := h.list.Execute(c.Request.Context(), appointment.ListAppointmentsInput{
		PatientID:       patientID,
		DoctorID:        req.Filter.DoctorID,
		Status:          req.Filter.Status,
		AppointmentDate: req.Filter.AppointmentDate,
		Options:         req.Options,
		IsCountOnly:     req.IsCountOnly,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if out.TotalRecords != nil {
		c.JSON(http.StatusOK, gin.H{"totalRecords": *out.TotalRecords})
		return
	}
	c.JSON(http.StatusOK, out.Page)
}

// ======================================================
// GET / UPDATE / RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), patientID, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), appointment.UpdateAppointmentInput{
		PatientID:      patientID,
		AppointmentID:  c.Param("id"),
		Date:           req.AppointmentDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		MedicalHistory: req.MedicalHistory,
		Symptoms:       req.Symptoms,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleAppointmentInput{
		PatientID:     patientID,
		AppointmentID: c.Param("id"),
		Date:          req.AppointmentDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// CANCEL / COMPLETE / DELETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), patientID, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// Complete é exclusivo do admin.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), adminID, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	if _, err := h.remove.Execute(c.Request.Context(), patientID, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
