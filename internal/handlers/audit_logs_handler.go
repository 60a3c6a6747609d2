package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/httpresp"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
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
	businessID := c.GetUint(middleware.ContextBusinessID)

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	db := h.db.WithContext(c.Request.Context())

	// --------------------------------------------------
	// Query base (sempre protegido por empresa)
	// --------------------------------------------------

	q := db.
		Model(&models.AuditLog{}).
		Where("business_id = ?", businessID)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr != "" || toStr != "" {
		loc, err := businessLocation(db, businessID)
		if err != nil {
			httperr.Respond(c, err, nil, "failed_to_get_business")
			return
		}

		if fromStr != "" {
			from, err := parseDateIn(loc, fromStr)
			if err != nil {
				httperr.BadRequest(c, "invalid_from", "Data inicial inválida.")
				return
			}
			q = q.Where("created_at >= ?", from.UTC())
		}

		if toStr != "" {
			to, err := parseDateIn(loc, toStr)
			if err != nil {
				httperr.BadRequest(c, "invalid_to", "Data final inválida.")
				return
			}
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
		}
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
