package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/store"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
	"github.com/BruksfildServices01/doctor-scheduler/internal/usecase/appointment"
)

// doctorStore é o recorte de store.Store[models.Doctor] usado pelos handlers.
type doctorStore interface {
	Create(ctx context.Context, rec *models.Doctor) error
	CreateMany(ctx context.Context, recs []models.Doctor) error
	FindOne(ctx context.Context, q store.Query, preload ...string) (*models.Doctor, error)
	UpdateOne(ctx context.Context, q store.Query, values map[string]any) (*models.Doctor, error)
	SoftDelete(ctx context.Context, q store.Query, values map[string]any) (bool, error)
	DeleteOne(ctx context.Context, q store.Query) (bool, error)
	Paginate(ctx context.Context, q store.Query, opts pagination.Options) (pagination.Page[models.Doctor], error)
	Distinct(ctx context.Context, column string, q store.Query) ([]string, error)
}

// ======================================================
// HANDLER
// ======================================================

// DoctorHandler é o diretório de médicos visto pelo paciente.
type DoctorHandler struct {
	doctors      doctorStore
	cache        *cache.SpecializationCache
	availability *appointment.CheckAvailability
	freeSlots    *appointment.GetAvailability
}

func NewDoctorHandler(
	doctors doctorStore,
	c *cache.SpecializationCache,
	availability *appointment.CheckAvailability,
	freeSlots *appointment.GetAvailability,
) *DoctorHandler {
	return &DoctorHandler{
		doctors:      doctors,
		cache:        c,
		availability: availability,
		freeSlots:    freeSlots,
	}
}

var DoctorSort = map[string]string{
	"name":           "name",
	"experience":     "total_experience",
	"rating":         "average_rating",
	"specialization": "specialization",
	"created_at":     "created_at",
}

func visibleDoctor() store.Query {
	return store.Query{"is_deleted": false, "is_active": true}
}

// doctorFilter aplica city/specialization da query string.
func doctorFilter(c *gin.Context, q store.Query) store.Query {
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		q["city"] = city
	}
	if spec := strings.TrimSpace(c.Query("specialization")); spec != "" {
		q["specialization"] = spec
	}
	return q
}

// ======================================================
// LIST / GET
// ======================================================

func (h *DoctorHandler) List(c *gin.Context) {
	q := doctorFilter(c, visibleDoctor())
	if c.Query("available") == "true" {
		q["availability"] = true
	}

	page, err := h.doctors.Paginate(c.Request.Context(), q, pagination.FromQuery(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	q := visibleDoctor()
	q["id"] = c.Param("id")

	doctor, err := h.doctors.FindOne(c.Request.Context(), q, "TimeSlots")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if doctor == nil {
		httperr.Respond(c, httperr.ErrNotFound("doctor"))
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// ======================================================
// SPECIALIZATIONS (cache)
// ======================================================

func (h *DoctorHandler) Specializations(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, ok := h.cache.Get(ctx); ok {
		c.JSON(http.StatusOK, gin.H{"specializations": cached, "cached": true})
		return
	}

	values, err := h.doctors.Distinct(ctx, "specialization", visibleDoctor())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if values == nil {
		values = []string{}
	}

	// falha no redis não derruba a listagem
	_ = h.cache.Set(ctx, values)

	c.JSON(http.StatusOK, gin.H{"specializations": values, "cached": false})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *DoctorHandler) Availability(c *gin.Context) {
	free, err := h.availability.Query(
		c.Request.Context(),
		c.Param("id"),
		c.Query("date"),
		c.Query("start_time"),
		c.Query("end_time"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": free})
}

func (h *DoctorHandler) FreeSlots(c *gin.Context) {
	date := c.Query("date")

	slots, err := h.freeSlots.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": c.Param("id"),
		"date":      date,
		"slots":     slots,
	})
}
