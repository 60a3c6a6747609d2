package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type UpdateBusinessRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *BusinessHandler) Get(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	var business models.Business
	if err := h.db.WithContext(c.Request.Context()).First(&business, businessID).Error; err != nil {
		httperr.Respond(c, err, nil, "failed_to_get_business")
		return
	}

	c.JSON(http.StatusOK, business)
}

func (h *BusinessHandler) Update(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	var business models.Business
	if err := h.db.WithContext(c.Request.Context()).First(&business, businessID).Error; err != nil {
		httperr.Respond(c, err, nil, "failed_to_get_business")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		business.Name = name
	}
	if req.Phone != nil {
		business.Phone = *req.Phone
	}
	if req.Address != nil {
		business.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		business.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		business.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&business).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Erro ao salvar as configurações da empresa.")
		return
	}

	c.JSON(http.StatusOK, business)
}
