package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/store"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

type addressStore interface {
	Create(ctx context.Context, rec *models.Address) error
	FindOne(ctx context.Context, q store.Query, preload ...string) (*models.Address, error)
	UpdateOne(ctx context.Context, q store.Query, values map[string]any) (*models.Address, error)
	SoftDelete(ctx context.Context, q store.Query, values map[string]any) (bool, error)
	Paginate(ctx context.Context, q store.Query, opts pagination.Options) (pagination.Page[models.Address], error)
}

// AddressHandler é o livro de endereços; tudo restrito ao usuário logado.
type AddressHandler struct {
	addresses addressStore
	audit     *audit.Dispatcher
}

func NewAddressHandler(addresses addressStore, d *audit.Dispatcher) *AddressHandler {
	return &AddressHandler{addresses: addresses, audit: d}
}

type AddressRequest struct {
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	Locality     string `json:"locality"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	Country      string `json:"country" binding:"required"`
	PostalCode   string `json:"postal_code"`
}

type UpdateAddressRequest struct {
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	Locality     *string `json:"locality,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Country      *string `json:"country,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
}

var AddressSort = map[string]string{
	"city":       "city",
	"created_at": "created_at",
}

func ownAddress(userID, id string) store.Query {
	return store.Query{"id": id, "user_id": userID, "is_deleted": false}
}

func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr := models.Address{
		Base: models.Base{
			CreatedBy: userID,
			UpdatedBy: userID,
			IsActive:  true,
		},
		UserID:       userID,
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		Locality:     strings.TrimSpace(req.Locality),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		Country:      strings.TrimSpace(req.Country),
		PostalCode:   strings.TrimSpace(req.PostalCode),
	}

	if err := h.addresses.Create(c.Request.Context(), &addr); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "address_created", "address", addr.ID, nil)
	c.JSON(http.StatusCreated, addr)
}

func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	page, err := h.addresses.Paginate(c.Request.Context(),
		store.Query{"user_id": userID, "is_deleted": false},
		pagination.FromQuery(c),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AddressHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	addr, err := h.addresses.FindOne(c.Request.Context(), ownAddress(userID, c.Param("id")))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if addr == nil {
		httperr.Respond(c, httperr.ErrNotFound("address"))
		return
	}

	c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if !bindJSON(c, &req) {
		return
	}

	values := map[string]any{"updated_by": userID}
	set := func(col string, v *string) {
		if v != nil {
			values[col] = strings.TrimSpace(*v)
		}
	}
	set("address_line1", req.AddressLine1)
	set("address_line2", req.AddressLine2)
	set("locality", req.Locality)
	set("city", req.City)
	set("state", req.State)
	set("country", req.Country)
	set("postal_code", req.PostalCode)

	addr, err := h.addresses.UpdateOne(c.Request.Context(), ownAddress(userID, c.Param("id")), values)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if addr == nil {
		httperr.Respond(c, httperr.ErrNotFound("address"))
		return
	}

	writeAudit(h.audit, c, "address_updated", "address", addr.ID, nil)
	c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	deleted, err := h.addresses.SoftDelete(c.Request.Context(), ownAddress(userID, id), models.SoftDeleteColumns(userID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.Respond(c, httperr.ErrNotFound("address"))
		return
	}

	writeAudit(h.audit, c, "address_deleted", "address", id, nil)
	c.Status(http.StatusNoContent)
}
