package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
	ucSettlement "github.com/BruksfildServices01/consultapp/internal/usecase/settlement"
)

type ClientHandler struct {
	db      *gorm.DB
	history *ucSettlement.ClientHistory
	pending *ucSettlement.PendingAmount
}

func NewClientHandler(
	db *gorm.DB,
	history *ucSettlement.ClientHistory,
	pending *ucSettlement.PendingAmount,
) *ClientHandler {
	return &ClientHandler{
		db:      db,
		history: history,
		pending: pending,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ClientRequest struct {
	Name     *string `json:"nome"`
	Phone    *string `json:"telefone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	CPF      *string `json:"cpf"`
	Address  *string `json:"endereco"`
	District *string `json:"bairro"`
	City     *string `json:"cidade"`
	State    *string `json:"estado" binding:"omitempty,len=2"`
	ZipCode  *string `json:"cep"`

	CategoryID *uint `json:"categoria_id"`
	OriginID   *uint `json:"origem_id"`

	PhotoURL        *string `json:"foto_url"`
	AcceptsEmail    *bool   `json:"recebe_email"`
	AcceptsSMS      *bool   `json:"recebe_sms"`
	AcceptsWhatsApp *bool   `json:"recebe_whatsapp"`
	Active          *bool   `json:"ativo"`
}

var clientRules = map[string]httperr.Rule{
	"client_not_found":   {Status: http.StatusNotFound, Message: "Cliente não encontrado."},
	"category_not_found": {Status: http.StatusBadRequest, Message: "Categoria não encontrada."},
	"origin_not_found":   {Status: http.StatusBadRequest, Message: "Origem não encontrada."},
	"invalid_name":       {Status: http.StatusBadRequest, Message: "Nome obrigatório."},
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	activeStr := strings.TrimSpace(c.Query("active"))

	q := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", businessID)

	// padrão: só ativos, como nos seletores do app
	switch activeStr {
	case "", "true":
		q = q.Where("ativo = ?", true)
	case "false":
		q = q.Where("ativo = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(nome) LIKE ? OR telefone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("nome ASC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)
	userID := c.GetUint(middleware.ContextUserID)

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	client := models.Client{
		BusinessID:      businessID,
		Active:          true,
		AcceptsEmail:    true,
		AcceptsSMS:      true,
		AcceptsWhatsApp: true,
		CreatedBy:       &userID,
		UpdatedBy:       &userID,
	}

	if err := h.apply(c, businessID, &client, &req); err != nil {
		httperr.Respond(c, err, clientRules, "failed_to_create_client")
		return
	}
	if client.Name == "" {
		httperr.Respond(c, httperr.ErrBusiness("invalid_name"), clientRules, "failed_to_create_client")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Omit(clause.Associations).
		Create(&client).Error; err != nil {

		httperr.Internal(c, "failed_to_create_client", "Erro ao cadastrar cliente.")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// ======================================================
// GET / UPDATE / DELETE
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)
	userID := c.GetUint(middleware.ContextUserID)

	client, ok := h.load(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := h.apply(c, businessID, client, &req); err != nil {
		httperr.Respond(c, err, clientRules, "failed_to_update_client")
		return
	}
	if client.Name == "" {
		httperr.Respond(c, httperr.ErrBusiness("invalid_name"), clientRules, "failed_to_update_client")
		return
	}
	client.UpdatedBy = &userID

	if err := h.db.WithContext(c.Request.Context()).
		Omit(clause.Associations).
		Save(client).Error; err != nil {

		httperr.Internal(c, "failed_to_update_client", "Erro ao atualizar cliente.")
		return
	}

	c.JSON(http.StatusOK, client)
}

// Delete only deactivates: agenda, histórico and pagamentos keep the row.
func (h *ClientHandler) Delete(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("ativo", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_client", "Erro ao desativar cliente.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// HISTORY / PENDING
// ======================================================

func (h *ClientHandler) History(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.history.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, clientRules, "failed_to_get_history")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) Pending(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.pending.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, clientRules, "failed_to_get_pending")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ClientHandler) load(c *gin.Context) (*models.Client, bool) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Origin").
		Where("id = ? AND business_id = ?", id, businessID).
		First(&client).Error; err != nil {

		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_client", "Erro ao buscar cliente.")
		return nil, false
	}

	return &client, true
}

func (h *ClientHandler) apply(c *gin.Context, businessID uint, client *models.Client, req *ClientRequest) error {
	ctx := c.Request.Context()

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.CPF != nil {
		client.CPF = *req.CPF
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.District != nil {
		client.District = *req.District
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.State != nil {
		client.State = strings.ToUpper(*req.State)
	}
	if req.ZipCode != nil {
		client.ZipCode = *req.ZipCode
	}
	if req.PhotoURL != nil {
		client.PhotoURL = *req.PhotoURL
	}
	if req.AcceptsEmail != nil {
		client.AcceptsEmail = *req.AcceptsEmail
	}
	if req.AcceptsSMS != nil {
		client.AcceptsSMS = *req.AcceptsSMS
	}
	if req.AcceptsWhatsApp != nil {
		client.AcceptsWhatsApp = *req.AcceptsWhatsApp
	}
	if req.Active != nil {
		client.Active = *req.Active
	}

	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			client.CategoryID = nil
		} else {
			if err := lookupExists(h.db.WithContext(ctx), &models.Category{}, businessID, *req.CategoryID); err != nil {
				return notFoundCode(err, "category_not_found")
			}
			client.CategoryID = req.CategoryID
		}
		client.Category = nil
	}
	if req.OriginID != nil {
		if *req.OriginID == 0 {
			client.OriginID = nil
		} else {
			if err := lookupExists(h.db.WithContext(ctx), &models.Origin{}, businessID, *req.OriginID); err != nil {
				return notFoundCode(err, "origin_not_found")
			}
			client.OriginID = req.OriginID
		}
		client.Origin = nil
	}

	return nil
}

func notFoundCode(err error, code string) error {
	if httperr.IsNotFound(err) {
		return httperr.ErrBusiness(code)
	}
	return err
}
