package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type ServiceRequest struct {
	Name        *string          `json:"nome"`
	Description *string          `json:"descricao"`
	Price       *decimal.Decimal `json:"preco"`
	DurationMin *int             `json:"duracao_minutos"`
	Active      *bool            `json:"ativo"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", businessID)

	switch activeStr {
	case "", "true":
		q = q.Where("ativo = ?", true)
	case "false":
		q = q.Where("ativo = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(descricao) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.
		Order("nome ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	service := models.Service{
		BusinessID:  businessID,
		DurationMin: 60,
		Active:      true,
	}
	if !applyService(c, &service, &req) {
		return
	}
	if req.Price == nil {
		httperr.BadRequest(c, "invalid_price", "Preço obrigatório.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao cadastrar serviço.")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// Update changes the price list only; agenda rows keep the valor_servico
// they were booked with.
func (h *ServiceHandler) Update(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&service).Error; err != nil {

		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if !applyService(c, &service, &req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("ativo", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Erro ao desativar serviço.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

func applyService(c *gin.Context, service *models.Service, req *ServiceRequest) bool {
	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Preço não pode ser negativo.")
			return false
		}
		service.Price = req.Price.Round(2)
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 1 {
			httperr.BadRequest(c, "invalid_duration", "Duração deve ser de pelo menos 1 minuto.")
			return false
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if service.Name == "" {
		httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
		return false
	}
	return true
}
