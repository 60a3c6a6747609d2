package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/httpresp"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
	ucDashboard "github.com/BruksfildServices01/consultapp/internal/usecase/dashboard"
	ucSettlement "github.com/BruksfildServices01/consultapp/internal/usecase/settlement"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	create       *ucSettlement.CreatePayment
	list         *ucSettlement.ListPayments
	get          *ucSettlement.GetPayment
	installments *ucSettlement.ListInstallments
	pay          *ucSettlement.PayInstallment
	pix          *ucSettlement.CreatePixCharge
	dashboard    *ucDashboard.GetDashboard
}

type PaymentUseCases struct {
	Create       *ucSettlement.CreatePayment
	List         *ucSettlement.ListPayments
	Get          *ucSettlement.GetPayment
	Installments *ucSettlement.ListInstallments
	Pay          *ucSettlement.PayInstallment
	Pix          *ucSettlement.CreatePixCharge

	// Dashboard, when set, is invalidated after a payment is recorded.
	Dashboard *ucDashboard.GetDashboard
}

func NewPaymentHandler(uc PaymentUseCases) *PaymentHandler {
	return &PaymentHandler{
		create:       uc.Create,
		list:         uc.List,
		get:          uc.Get,
		installments: uc.Installments,
		pay:          uc.Pay,
		pix:          uc.Pix,
		dashboard:    uc.Dashboard,
	}
}

type CreatePaymentRequest struct {
	EncounterID     uint            `json:"atendimento_id" binding:"required"`
	PaymentMethodID uint            `json:"forma_pagamento_id" binding:"required"`
	Amount          decimal.Decimal `json:"valor"`
	Installments    int             `json:"numero_parcelas"`
	TransactionType string          `json:"tipo_transacao"`
	Date            string          `json:"data_pagamento"` // YYYY-MM-DD
	Notes           string          `json:"observacoes"`
}

var paymentRules = map[string]httperr.Rule{
	"encounter_not_found":        {Status: http.StatusNotFound, Message: "Atendimento não encontrado."},
	"payment_not_found":          {Status: http.StatusNotFound, Message: "Pagamento não encontrado."},
	"installment_not_found":      {Status: http.StatusNotFound, Message: "Parcela não encontrada."},
	"consultant_not_found":       {Status: http.StatusNotFound, Message: "Consultor do atendimento não encontrado."},
	"payment_method_not_found":   {Status: http.StatusBadRequest, Message: "Forma de pagamento não encontrada ou inativa."},
	"invalid_installments":       {Status: http.StatusBadRequest, Message: "Número de parcelas deve estar entre 1 e 12."},
	"invalid_transaction_type":   {Status: http.StatusBadRequest, Message: "Tipo de transação inválido."},
	"invalid_period":             {Status: http.StatusBadRequest, Message: "Período inválido."},
	"encounter_already_settled":  {Status: http.StatusConflict, Message: "Este atendimento já possui pagamento."},
	"installment_already_paid":   {Status: http.StatusConflict, Message: "Parcela já está paga."},
	"consultant_mismatch":        {Status: http.StatusConflict, Message: "Consultor não corresponde ao atendimento."},
	"commission_requires_inflow": {Status: http.StatusBadRequest, Message: "Comissão só é gerada para entradas."},
	"pix_requires_inflow":        {Status: http.StatusBadRequest, Message: "Cobrança PIX só pode ser gerada para entradas."},
	"pix_already_issued":         {Status: http.StatusConflict, Message: "Cobrança PIX já emitida para este pagamento."},
	"payment_gateway_disabled":   {Status: http.StatusServiceUnavailable, Message: "Gateway de pagamento não configurado."},
}

// ======================================================
// PAYMENTS
// ======================================================

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	out, err := h.create.Execute(c.Request.Context(), middleware.Actor(c), ucSettlement.CreatePaymentInput{
		EncounterID:     req.EncounterID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Installments:    req.Installments,
		TransactionType: req.TransactionType,
		Date:            req.Date,
		Notes:           req.Notes,
	})
	if err != nil {
		fail(c, err, paymentRules, "failed_to_create_payment")
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), middleware.Actor(c).BusinessID)

	httpresp.Created(c, out)
}

func (h *PaymentHandler) List(c *gin.Context) {
	items, err := h.list.Execute(c.Request.Context(), middleware.Actor(c), ucSettlement.ListPaymentsInput{
		From: c.Query("from"),
		To:   c.Query("to"),
		Type: c.Query("type"),
	})
	if err != nil {
		fail(c, err, paymentRules, "failed_to_list_payments")
		return
	}
	if items == nil {
		items = []dto.PaymentDTO{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, paymentRules, "failed_to_get_payment")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// INSTALLMENTS
// ======================================================

func (h *PaymentHandler) Installments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	items, err := h.installments.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, paymentRules, "failed_to_list_installments")
		return
	}
	if items == nil {
		items = []models.Installment{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *PaymentHandler) PayInstallment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	inst, err := h.pay.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, paymentRules, "failed_to_pay_installment")
		return
	}

	c.JSON(http.StatusOK, inst)
}

// ======================================================
// PIX
// ======================================================

func (h *PaymentHandler) CreatePix(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.pix.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, paymentRules, "failed_to_create_pix")
		return
	}

	httpresp.Created(c, out)
}
