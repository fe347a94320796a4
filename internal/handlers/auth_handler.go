package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/session"
	"github.com/BruksfildServices01/seucuidado/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	issuer   *session.Issuer
	denylist session.Denylist
	audit    *audit.Dispatcher

	secureCookie bool

	// EmailCheck validates the e-mail domain at signup.
	EmailCheck func(email string) bool
}

func NewAuthHandler(
	db *gorm.DB,
	issuer *session.Issuer,
	denylist session.Denylist,
	audit *audit.Dispatcher,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		db:           db,
		issuer:       issuer,
		denylist:     denylist,
		audit:        audit,
		secureCookie: secureCookie,
		EmailCheck:   validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleClient && role != models.RoleProfessional {
		httperr.BadRequest(c, "invalid_role", "Perfil de cadastro inválido.")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.EmailCheck(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}
	if count > 0 {
		httperr.FromError(c, httperr.ErrBusiness("email_already_used"), "", "")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao criar usuário.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if role != models.RoleProfessional {
			return nil
		}
		// perfil nasce pendente de aprovação
		return tx.Create(&models.Professional{
			UserID:    user.ID,
			Specialty: models.PendingSpecialty,
			RadiusKM:  1,
		}).Error
	})
	if err != nil {
		log.Printf("register %s: %v", email, err)
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	writeAudit(h.audit, user.ID, "user_registered", "user", idString(user.ID), gin.H{"role": role})

	h.startSession(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao entrar.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	writeAudit(h.audit, user.ID, "user_logged_in", "user", idString(user.ID), nil)

	h.startSession(c, http.StatusOK, &user)
}

// Logout revokes the token everywhere, not only in this browser.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := currentSession(c)

	if err := h.denylist.Revoke(c.Request.Context(), s.TokenID, s.ExpiresAt); err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_logout", "Erro ao sair.")
		return
	}

	h.setCookie(c, "", -1)
	writeAudit(h.audit, s.UserID, "user_logged_out", "user", idString(s.UserID), nil)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --------- Session ---------

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User) {
	token, s, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao iniciar sessão.")
		return
	}

	h.setCookie(c, token, int(time.Until(s.ExpiresAt).Seconds()))

	c.JSON(status, gin.H{
		"user":       userJSON(user),
		"token":      token,
		"expires_at": s.ExpiresAt,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.secureCookie, true)
}
