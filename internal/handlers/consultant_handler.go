package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
	ucAppointment "github.com/BruksfildServices01/consultapp/internal/usecase/appointment"
	ucSettlement "github.com/BruksfildServices01/consultapp/internal/usecase/settlement"
)

type ConsultantHandler struct {
	db           *gorm.DB
	commissions  *ucSettlement.ListCommissions
	availability *ucAppointment.GetAvailability
}

func NewConsultantHandler(
	db *gorm.DB,
	commissions *ucSettlement.ListCommissions,
	availability *ucAppointment.GetAvailability,
) *ConsultantHandler {
	return &ConsultantHandler{
		db:           db,
		commissions:  commissions,
		availability: availability,
	}
}

// --------- Requests ---------

type ConsultantRequest struct {
	Name              *string          `json:"nome"`
	Email             *string          `json:"email" binding:"omitempty,email"`
	Phone             *string          `json:"telefone"`
	CPF               *string          `json:"cpf"`
	Address           *string          `json:"endereco"`
	City              *string          `json:"cidade"`
	State             *string          `json:"estado" binding:"omitempty,len=2"`
	CommissionPercent *decimal.Decimal `json:"percentual_comissao"`
	Active            *bool            `json:"ativo"`
}

var consultantRules = map[string]httperr.Rule{
	"consultant_not_found":    {Status: http.StatusNotFound, Message: "Consultor não encontrado."},
	"service_not_found":       {Status: http.StatusNotFound, Message: "Serviço não encontrado."},
	"invalid_name":            {Status: http.StatusBadRequest, Message: "Nome obrigatório."},
	"invalid_commission_rate": {Status: http.StatusBadRequest, Message: "Percentual de comissão deve estar entre 0 e 100."},
	"invalid_period":          {Status: http.StatusBadRequest, Message: "Período inválido."},
}

var hundred = decimal.NewFromInt(100)

// --------- CRUD ---------

func (h *ConsultantHandler) List(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", businessID)

	switch strings.TrimSpace(c.Query("active")) {
	case "", "true":
		q = q.Where("ativo = ?", true)
	case "false":
		q = q.Where("ativo = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var consultants []models.Consultant
	if err := q.Order("nome ASC").Find(&consultants).Error; err != nil {
		httperr.Internal(c, "failed_to_list_consultants", "Erro ao listar consultores.")
		return
	}

	c.JSON(http.StatusOK, consultants)
}

func (h *ConsultantHandler) Create(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	var req ConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	consultant := models.Consultant{
		BusinessID: businessID,
		Active:     true,
	}
	if err := applyConsultant(&consultant, &req); err != nil {
		httperr.Respond(c, err, consultantRules, "failed_to_create_consultant")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&consultant).Error; err != nil {
		httperr.Internal(c, "failed_to_create_consultant", "Erro ao cadastrar consultor.")
		return
	}

	c.JSON(http.StatusCreated, consultant)
}

func (h *ConsultantHandler) Get(c *gin.Context) {
	consultant, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, consultant)
}

// Update never touches past agenda or comissoes rows: they carry their own
// commission snapshot.
func (h *ConsultantHandler) Update(c *gin.Context) {
	consultant, ok := h.load(c)
	if !ok {
		return
	}

	var req ConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := applyConsultant(consultant, &req); err != nil {
		httperr.Respond(c, err, consultantRules, "failed_to_update_consultant")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(consultant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_consultant", "Erro ao atualizar consultor.")
		return
	}

	c.JSON(http.StatusOK, consultant)
}

func (h *ConsultantHandler) Delete(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Consultant{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("ativo", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_consultant", "Erro ao desativar consultor.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "consultant_not_found", "Consultor não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Comissões / Disponibilidade ---------

func (h *ConsultantHandler) Commissions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.commissions.Execute(
		c.Request.Context(),
		middleware.Actor(c),
		id,
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		fail(c, err, consultantRules, "failed_to_list_commissions")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ConsultantHandler) Availability(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}
	if serviceID == 0 {
		httperr.BadRequest(c, "missing_service_id", "Serviço obrigatório.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	loc, err := businessLocation(h.db.WithContext(c.Request.Context()), businessID)
	if err != nil {
		httperr.Respond(c, err, nil, "failed_to_get_business")
		return
	}

	date, err := parseDateIn(loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BusinessID:   businessID,
		ConsultantID: id,
		ServiceID:    serviceID,
		Date:         date,
	})
	if err != nil {
		fail(c, err, consultantRules, "failed_to_get_availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// --------- Helpers ---------

func (h *ConsultantHandler) load(c *gin.Context) (*models.Consultant, bool) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var consultant models.Consultant
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&consultant).Error; err != nil {

		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "consultant_not_found", "Consultor não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_consultant", "Erro ao buscar consultor.")
		return nil, false
	}

	return &consultant, true
}

func applyConsultant(consultant *models.Consultant, req *ConsultantRequest) error {
	if req.Name != nil {
		consultant.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		consultant.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		consultant.Phone = *req.Phone
	}
	if req.CPF != nil {
		consultant.CPF = *req.CPF
	}
	if req.Address != nil {
		consultant.Address = *req.Address
	}
	if req.City != nil {
		consultant.City = *req.City
	}
	if req.State != nil {
		consultant.State = strings.ToUpper(*req.State)
	}
	if req.CommissionPercent != nil {
		pct := *req.CommissionPercent
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return httperr.ErrBusiness("invalid_commission_rate")
		}
		consultant.CommissionPercent = pct.Round(2)
	}
	if req.Active != nil {
		consultant.Active = *req.Active
	}

	if consultant.Name == "" {
		return httperr.ErrBusiness("invalid_name")
	}
	return nil
}
