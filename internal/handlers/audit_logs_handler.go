package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	opts := pagination.FromQuery(c)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if entityID := c.Query("entity_id"); entityID != "" {
		q = q.Where("entity_id = ?", entityID)
	}

	if actor := c.Query("actor_id"); actor != "" {
		q = q.Where("actor_id = ?", actor)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := clock.ParseDate(fromStr)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		q = q.Where("created_at >= ?", from.Time)
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := clock.ParseDate(toStr)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.ErrStore("audit_logs.count", err))
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset()).
		Find(&logs).Error; err != nil {

		httperr.Respond(c, httperr.ErrStore("audit_logs.list", err))
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(logs, total, opts))
}
