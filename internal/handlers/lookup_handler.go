package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

// LookupHandler serves the small per-business tables behind the app's
// pickers: formas de pagamento, categorias and origens.
type LookupHandler struct {
	db *gorm.DB
}

func NewLookupHandler(db *gorm.DB) *LookupHandler {
	return &LookupHandler{db: db}
}

type LookupRequest struct {
	Name        string `json:"nome" binding:"required,max=60"`
	Description string `json:"descricao" binding:"max=255"`
	Order       int    `json:"ordem" binding:"min=0"`
}

// --------- Formas de pagamento ---------

func (h *LookupHandler) ListPaymentMethods(c *gin.Context) {
	listLookup[models.PaymentMethod](c, h.db, "ordem ASC, nome ASC")
}

func (h *LookupHandler) CreatePaymentMethod(c *gin.Context) {
	createLookup(c, h.db, func(businessID uint, req LookupRequest) *models.PaymentMethod {
		return &models.PaymentMethod{
			BusinessID:  businessID,
			Name:        req.Name,
			Description: req.Description,
			Order:       req.Order,
			Active:      true,
		}
	})
}

// --------- Categorias ---------

func (h *LookupHandler) ListCategories(c *gin.Context) {
	listLookup[models.Category](c, h.db, "nome ASC")
}

func (h *LookupHandler) CreateCategory(c *gin.Context) {
	createLookup(c, h.db, func(businessID uint, req LookupRequest) *models.Category {
		return &models.Category{
			BusinessID:  businessID,
			Name:        req.Name,
			Description: req.Description,
			Active:      true,
		}
	})
}

// --------- Origens ---------

func (h *LookupHandler) ListOrigins(c *gin.Context) {
	listLookup[models.Origin](c, h.db, "nome ASC")
}

func (h *LookupHandler) CreateOrigin(c *gin.Context) {
	createLookup(c, h.db, func(businessID uint, req LookupRequest) *models.Origin {
		return &models.Origin{
			BusinessID:  businessID,
			Name:        req.Name,
			Description: req.Description,
			Active:      true,
		}
	})
}

// --------- Helpers ---------

func listLookup[T any](c *gin.Context, db *gorm.DB, order string) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	q := db.WithContext(c.Request.Context()).Where("business_id = ?", businessID)
	if c.Query("all") != "true" {
		q = q.Where("ativo = ?", true)
	}

	var rows []T
	if err := q.Order(order).Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_lookup", "Erro ao listar registros.")
		return
	}
	if rows == nil {
		rows = []T{}
	}

	c.JSON(http.StatusOK, rows)
}

func createLookup[T any](c *gin.Context, db *gorm.DB, build func(uint, LookupRequest) *T) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
		return
	}

	row := build(businessID, req)
	if err := db.WithContext(c.Request.Context()).Create(row).Error; err != nil {
		httperr.Internal(c, "failed_to_create_lookup", "Erro ao salvar registro.")
		return
	}

	c.JSON(http.StatusCreated, row)
}

// lookupExists checks that an active lookup row belongs to the business.
func lookupExists(db *gorm.DB, model any, businessID, id uint) error {
	return db.
		Where("id = ? AND business_id = ? AND ativo = ?", id, businessID, true).
		First(model).Error
}
