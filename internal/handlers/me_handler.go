package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/store"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

type MeHandler struct {
	users userStore
	audit *audit.Dispatcher
}

func NewMeHandler(users userStore, d *audit.Dispatcher) *MeHandler {
	return &MeHandler{users: users, audit: d}
}

type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Mobile   *string `json:"mobile,omitempty"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

func meQuery(id string) store.Query {
	return store.Query{"id": id, "is_deleted": false}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.users.FindOne(c.Request.Context(), meQuery(userID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if user == nil {
		httperr.Respond(c, httperr.ErrNotFound("user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	values := map[string]any{"updated_by": userID}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		values["name"] = name
	}
	if req.Mobile != nil {
		values["mobile"] = strings.TrimSpace(*req.Mobile)
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
			return
		}
		values["password_hash"] = string(hashed)
	}

	user, err := h.users.UpdateOne(c.Request.Context(), meQuery(userID), values)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if user == nil {
		httperr.Respond(c, httperr.ErrNotFound("user"))
		return
	}

	writeAudit(h.audit, c, "user_updated", "user", userID, nil)
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

func (h *MeHandler) DeleteMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	deleted, err := h.users.SoftDelete(c.Request.Context(), meQuery(userID), models.SoftDeleteColumns(userID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.Respond(c, httperr.ErrNotFound("user"))
		return
	}

	writeAudit(h.audit, c, "user_deleted", "user", userID, nil)
	c.Status(http.StatusNoContent)
}
