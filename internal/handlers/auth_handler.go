package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/store"
	"github.com/BruksfildServices01/doctor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/validators"
)

// userStore é o recorte de store.Store[models.User] usado aqui.
type userStore interface {
	Create(ctx context.Context, rec *models.User) error
	FindOne(ctx context.Context, q store.Query, preload ...string) (*models.User, error)
	UpdateOne(ctx context.Context, q store.Query, values map[string]any) (*models.User, error)
	SoftDelete(ctx context.Context, q store.Query, values map[string]any) (bool, error)
}

// checagem de DNS do domínio; trocada nos testes
var emailDomainOK = validators.IsEmailDomainValid

type AuthHandler struct {
	users  userStore
	config *config.Config
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewAuthHandler(users userStore, cfg *config.Config, d *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{users: users, config: cfg, audit: d, now: time.Now}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,trimmed_email"`
	Password string `json:"password" binding:"required,min=6"`
	Mobile   string `json:"mobile"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,trimmed_email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := normalizeEmail(req.Email)
	if !emailDomainOK(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	existing, err := h.users.FindOne(c.Request.Context(), store.Query{"email": email})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if existing != nil {
		httperr.Respond(c, httperr.ErrConflict("email_already_registered", "E-mail já cadastrado."))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	user := models.User{
		Base:         models.Base{IsActive: true},
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Mobile:       req.Mobile,
		Role:         models.RoleUser,
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrConflict("email_already_registered", "E-mail já cadastrado."))
			return
		}
		httperr.Respond(c, err)
		return
	}

	token, err := middleware.IssueToken(h.config, &user, h.now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	h.audit.Dispatch(audit.Event{ActorID: user.ID, Action: "user_registered", Entity: "user", EntityID: user.ID})

	c.JSON(http.StatusCreated, gin.H{
		"user":  userView(&user),
		"token": token,
	})
}

// Login atende a plataforma do paciente.
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, false)
}

// AdminLogin recusa contas sem papel admin.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *AuthHandler) login(c *gin.Context, adminOnly bool) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.FindOne(c.Request.Context(), store.Query{
		"email":      normalizeEmail(req.Email),
		"is_deleted": false,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if user == nil || !user.IsActive {
		httperr.Respond(c, httperr.ErrUnauthorized("invalid_credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Respond(c, httperr.ErrUnauthorized("invalid_credentials"))
		return
	}

	if adminOnly && !user.IsAdmin() {
		httperr.Respond(c, httperr.ErrForbidden("not_admin"))
		return
	}

	token, err := middleware.IssueToken(h.config, user, h.now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"mobile": u.Mobile,
		"role":   u.Role,
	}
}
