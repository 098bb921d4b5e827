package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/imaging"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/store"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

const maxPhotoBytes = 5 << 20

type photoStore interface {
	Enabled() bool
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type AdminDoctorHandler struct {
	doctors doctorStore
	photos  photoStore
	cache   *cache.SpecializationCache
	audit   *audit.Dispatcher
}

func NewAdminDoctorHandler(
	doctors doctorStore,
	photos photoStore,
	c *cache.SpecializationCache,
	d *audit.Dispatcher,
) *AdminDoctorHandler {
	return &AdminDoctorHandler{doctors: doctors, photos: photos, cache: c, audit: d}
}

// --------- Requests ---------

type CreateDoctorRequest struct {
	Name            string `json:"name" binding:"required"`
	Specialization  string `json:"specialization" binding:"required"`
	TotalExperience int    `json:"total_experience" binding:"min=0"`
	DateOfBirth     string `json:"date_of_birth" binding:"omitempty,ymd"`
	City            string `json:"city"`
	Email           string `json:"email" binding:"omitempty,trimmed_email"`
	Mobile          string `json:"mobile"`
	Availability    *bool  `json:"availability"`
}

type BulkCreateDoctorsRequest struct {
	Doctors []CreateDoctorRequest `json:"doctors" binding:"required,min=1,dive"`
}

type UpdateDoctorRequest struct {
	Name            *string `json:"name,omitempty"`
	Specialization  *string `json:"specialization,omitempty"`
	TotalExperience *int    `json:"total_experience,omitempty" binding:"omitempty,min=0"`
	DateOfBirth     *string `json:"date_of_birth,omitempty" binding:"omitempty,ymd"`
	City            *string `json:"city,omitempty"`
	Email           *string `json:"email,omitempty" binding:"omitempty,trimmed_email"`
	Mobile          *string `json:"mobile,omitempty"`
	Availability    *bool   `json:"availability,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

func (r CreateDoctorRequest) toModel(actor string) models.Doctor {
	d := models.Doctor{
		Base: models.Base{
			CreatedBy: actor,
			UpdatedBy: actor,
			IsActive:  true,
		},
		Name:            strings.TrimSpace(r.Name),
		Specialization:  strings.TrimSpace(r.Specialization),
		TotalExperience: r.TotalExperience,
		City:            strings.TrimSpace(r.City),
		Email:           normalizeEmail(r.Email),
		Mobile:          r.Mobile,
		Availability:    true,
	}
	if r.Availability != nil {
		d.Availability = *r.Availability
	}
	if dob := parseDOB(r.DateOfBirth); dob != nil {
		d.DateOfBirth = dob
	}
	return d
}

// o binding ymd já validou o formato
func parseDOB(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := clock.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d.Time
}

func doctorByID(id string) store.Query {
	return store.Query{"id": id, "is_deleted": false}
}

// --------- Handlers ---------

func (h *AdminDoctorHandler) Create(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	doctor := req.toModel(actor)
	if err := h.doctors.Create(c.Request.Context(), &doctor); err != nil {
		httperr.Respond(c, err)
		return
	}

	_ = h.cache.Invalidate(c.Request.Context())
	writeAudit(h.audit, c, "doctor_created", "doctor", doctor.ID, nil)

	c.JSON(http.StatusCreated, doctor)
}

func (h *AdminDoctorHandler) BulkCreate(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}

	var req BulkCreateDoctorsRequest
	if !bindJSON(c, &req) {
		return
	}

	doctors := make([]models.Doctor, 0, len(req.Doctors))
	for _, r := range req.Doctors {
		doctors = append(doctors, r.toModel(actor))
	}

	if err := h.doctors.CreateMany(c.Request.Context(), doctors); err != nil {
		httperr.Respond(c, err)
		return
	}

	_ = h.cache.Invalidate(c.Request.Context())
	writeAudit(h.audit, c, "doctors_bulk_created", "doctor", "", map[string]any{"count": len(doctors)})

	c.JSON(http.StatusCreated, gin.H{"inserted": len(doctors), "data": doctors})
}

func (h *AdminDoctorHandler) List(c *gin.Context) {
	q := doctorFilter(c, store.Query{"is_deleted": false})
	switch c.Query("active") {
	case "true":
		q["is_active"] = true
	case "false":
		q["is_active"] = false
	}

	opts := pagination.FromQuery(c)
	if c.Query("with_slots") == "true" {
		opts.Preload = []string{"TimeSlots"}
	}

	page, err := h.doctors.Paginate(c.Request.Context(), q, opts)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AdminDoctorHandler) Get(c *gin.Context) {
	doctor, err := h.doctors.FindOne(c.Request.Context(), doctorByID(c.Param("id")), "TimeSlots")
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

func (h *AdminDoctorHandler) Update(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{"updated_by": actor}

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Specialization != nil {
		updates["specialization"] = strings.TrimSpace(*req.Specialization)
	}
	if req.TotalExperience != nil {
		updates["total_experience"] = *req.TotalExperience
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = parseDOB(*req.DateOfBirth)
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}
	if req.Email != nil {
		updates["email"] = normalizeEmail(*req.Email)
	}
	if req.Mobile != nil {
		updates["mobile"] = *req.Mobile
	}
	if req.Availability != nil {
		updates["availability"] = *req.Availability
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	doctor, err := h.doctors.UpdateOne(c.Request.Context(), doctorByID(c.Param("id")), updates)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if doctor == nil {
		httperr.Respond(c, httperr.ErrNotFound("doctor"))
		return
	}

	_ = h.cache.Invalidate(c.Request.Context())
	writeAudit(h.audit, c, "doctor_updated", "doctor", doctor.ID, nil)

	c.JSON(http.StatusOK, doctor)
}

func (h *AdminDoctorHandler) SoftDelete(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	deleted, err := h.doctors.SoftDelete(c.Request.Context(), doctorByID(id), models.SoftDeleteColumns(actor))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.Respond(c, httperr.ErrNotFound("doctor"))
		return
	}

	_ = h.cache.Invalidate(c.Request.Context())
	writeAudit(h.audit, c, "doctor_soft_deleted", "doctor", id, nil)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminDoctorHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.doctors.DeleteOne(c.Request.Context(), store.Query{"id": id})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.Respond(c, httperr.ErrNotFound("doctor"))
		return
	}

	_ = h.cache.Invalidate(c.Request.Context())
	writeAudit(h.audit, c, "doctor_deleted", "doctor", id, nil)

	c.Status(http.StatusNoContent)
}

// ======================================================
// PHOTO (JPEG/PNG → WebP → S3)
// ======================================================

func (h *AdminDoctorHandler) UploadPhoto(c *gin.Context) {
	if h.photos == nil || !h.photos.Enabled() {
		httperr.Write(c, http.StatusServiceUnavailable, "photo_storage_disabled", "Armazenamento de fotos não configurado.")
		return
	}

	actor, ok := callerID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()

	doctor, err := h.doctors.FindOne(ctx, doctorByID(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if doctor == nil {
		httperr.Respond(c, httperr.ErrNotFound("doctor"))
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Arquivo 'photo' obrigatório.")
		return
	}
	if file.Size > maxPhotoBytes {
		httperr.BadRequest(c, "photo_too_large", "Foto maior que 5MB.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Não foi possível ler a foto.")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Não foi possível ler a foto.")
		return
	}

	webp, err := imaging.ToWebP(bytes.NewReader(raw))
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Formato de imagem não suportado.")
		return
	}

	url, err := h.photos.Put(ctx, "doctors/"+id+".webp", webp, imaging.ContentType)
	if err != nil {
		httperr.Respond(c, httperr.ErrStore("doctor.photo_upload", err))
		return
	}

	updated, err := h.doctors.UpdateOne(ctx, doctorByID(id), map[string]any{
		"photo_url":  url,
		"updated_by": actor,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "doctor_photo_uploaded", "doctor", id, map[string]any{"bytes": len(webp)})

	c.JSON(http.StatusOK, updated)
}
