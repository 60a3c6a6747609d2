package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/config"
	dbpkg "github.com/BruksfildServices01/consultapp/internal/db"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

const tokenLifetime = 24 * time.Hour

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	revoked cache.Store
	dns     validators.DomainResolver
}

// NewAuthHandler uses net.DefaultResolver when dns is nil.
func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	revoked cache.Store,
	dns validators.DomainResolver,
) *AuthHandler {
	return &AuthHandler{
		db:      db,
		config:  cfg,
		revoked: revoked,
		dns:     dns,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var errSlugTaken = httperr.ErrBusiness("slug_already_exists")

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.EmailDomainResolves(c.Request.Context(), h.dns, email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BusinessSlug))

	var (
		business models.Business
		user     models.User
	)

	// empresa, dono e tabelas auxiliares nascem juntos
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errSlugTaken
		}

		business = models.Business{
			Name:     req.BusinessName,
			Slug:     slug,
			Phone:    req.BusinessPhone,
			Address:  req.BusinessAddress,
			Timezone: h.config.DefaultTimezone,
		}
		if err := tx.Create(&business).Error; err != nil {
			return err
		}

		user = models.User{
			BusinessID:   business.ID,
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hashed),
			Phone:        req.Phone,
			Role:         "owner",
		}
		if err := tx.Omit("Business").Create(&user).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrBusiness("email_already_exists")
			}
			return err
		}

		return dbpkg.SeedLookups(tx, business.ID)
	})
	if err != nil {
		httperr.Respond(c, err, map[string]httperr.Rule{
			"slug_already_exists":  {Status: http.StatusConflict, Message: "Este endereço já está em uso."},
			"email_already_exists": {Status: http.StatusConflict, Message: "Este e-mail já está cadastrado."},
		}, "failed_to_register")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token de acesso.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":     userView(&user),
		"business": businessView(&business),
		"token":    token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token de acesso.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"business": businessView(&user.Business),
		"token":    token,
	})
}

// Logout revokes the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextTokenID)
	expiry := c.GetTime(middleware.ContextTokenExpiry)

	ttl := time.Until(expiry)
	if expiry.IsZero() || ttl > tokenLifetime {
		ttl = tokenLifetime
	}

	if ttl > 0 {
		if err := h.revoked.Set(c.Request.Context(), middleware.RevokedKey(jti), []byte("1"), ttl); err != nil {
			httperr.Internal(c, "failed_to_revoke_token", "Erro ao encerrar a sessão.")
			return
		}
	}

	c.Status(http.StatusNoContent)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"businessId": user.BusinessID,
		"role":       user.Role,
		"jti":        uuid.NewString(),
		"exp":        now.Add(tokenLifetime).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- Views ---------

func userView(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"phone":       u.Phone,
		"role":        u.Role,
		"business_id": u.BusinessID,
	}
}

func businessView(b *models.Business) gin.H {
	return gin.H{
		"id":       b.ID,
		"name":     b.Name,
		"slug":     b.Slug,
		"phone":    b.Phone,
		"address":  b.Address,
		"timezone": b.Timezone,
	}
}
