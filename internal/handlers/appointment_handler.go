package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/consultapp/internal/usecase/appointment"
	ucDashboard "github.com/BruksfildServices01/consultapp/internal/usecase/dashboard"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	create   *ucAppointment.CreateAppointment
	update   *ucAppointment.UpdateAppointment
	confirm  *ucAppointment.ConfirmAppointment
	cancel   *ucAppointment.CancelAppointment
	complete *ucAppointment.CompleteAppointment
	get      *ucAppointment.GetAppointment
	byDate   *ucAppointment.ListAppointmentsByDate
	byMonth  *ucAppointment.ListAppointmentsByMonth

	dashboard *ucDashboard.GetDashboard
}

type AppointmentUseCases struct {
	Create   *ucAppointment.CreateAppointment
	Update   *ucAppointment.UpdateAppointment
	Confirm  *ucAppointment.ConfirmAppointment
	Cancel   *ucAppointment.CancelAppointment
	Complete *ucAppointment.CompleteAppointment
	Get      *ucAppointment.GetAppointment
	ByDate   *ucAppointment.ListAppointmentsByDate
	ByMonth  *ucAppointment.ListAppointmentsByMonth

	// Dashboard, when set, is invalidated after every write.
	Dashboard *ucDashboard.GetDashboard
}

func NewAppointmentHandler(db *gorm.DB, uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{
		db:       db,
		create:   uc.Create,
		update:   uc.Update,
		confirm:  uc.Confirm,
		cancel:   uc.Cancel,
		complete: uc.Complete,
		get:      uc.Get,
		byDate:   uc.ByDate,
		byMonth:  uc.ByMonth,

		dashboard: uc.Dashboard,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID     uint   `json:"cliente_id" binding:"required"`
	ConsultantID uint   `json:"consultor_id" binding:"required"`
	ServiceID    uint   `json:"servico_id" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Time         string `json:"time" binding:"required"` // HH:mm
	Notes        string `json:"observacoes"`
}

type UpdateAppointmentRequest struct {
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Notes *string `json:"observacoes"`
}

type CompleteAppointmentRequest struct {
	FinalValue      *decimal.Decimal `json:"valor_final"`
	PaymentMethodID *uint            `json:"forma_pagamento"`
	Procedures      string           `json:"procedimentos_realizados"`
	Notes           string           `json:"observacoes_atendimento"`
}

var appointmentRules = map[string]httperr.Rule{
	"appointment_not_found":    {Status: http.StatusNotFound, Message: "Agendamento não encontrado."},
	"client_not_found":         {Status: http.StatusBadRequest, Message: "Cliente não encontrado ou inativo."},
	"consultant_not_found":     {Status: http.StatusBadRequest, Message: "Consultor não encontrado ou inativo."},
	"service_not_found":        {Status: http.StatusBadRequest, Message: "Serviço não encontrado ou inativo."},
	"payment_method_not_found": {Status: http.StatusBadRequest, Message: "Forma de pagamento não encontrada."},
	"invalid_date_or_time":     {Status: http.StatusBadRequest, Message: "Data ou hora inválida."},
	"too_soon":                 {Status: http.StatusBadRequest, Message: "Horário inválido: no passado ou sem a antecedência mínima."},
	"outside_working_hours":    {Status: http.StatusBadRequest, Message: "Fora do horário de atendimento."},
	"time_conflict":            {Status: http.StatusConflict, Message: "Horário indisponível para este consultor."},
	"invalid_transition":       {Status: http.StatusConflict, Message: "O status atual do agendamento não permite esta operação."},
	"encounter_exists":         {Status: http.StatusConflict, Message: "Este agendamento já possui atendimento registrado."},
	"invalid_period":           {Status: http.StatusBadRequest, Message: "Período inválido."},
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), middleware.Actor(c), ucAppointment.CreateAppointmentInput{
		ClientID:     req.ClientID,
		ConsultantID: req.ConsultantID,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_create_appointment")
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), middleware.Actor(c).BusinessID)

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), middleware.Actor(c), id, ucAppointment.UpdateAppointmentInput{
		Date:  req.Date,
		Time:  req.Time,
		Notes: req.Notes,
	})
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_update_appointment")
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), middleware.Actor(c).BusinessID)

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_confirm_appointment")
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), middleware.Actor(c).BusinessID)

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_cancel_appointment")
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), middleware.Actor(c).BusinessID)

	c.JSON(http.StatusOK, ap)
}

// Complete fulfils the appointment and answers with the encounter it derived.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CompleteAppointmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.InvalidRequest(c, err)
			return
		}
	}

	enc, err := h.complete.Execute(c.Request.Context(), middleware.Actor(c), id, ucAppointment.CompleteAppointmentInput{
		FinalValue:      req.FinalValue,
		PaymentMethodID: req.PaymentMethodID,
		Procedures:      req.Procedures,
		Notes:           req.Notes,
	})
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_complete_appointment")
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), middleware.Actor(c).BusinessID)

	c.JSON(http.StatusCreated, enc)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_get_appointment")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	consultantID, ok := queryUint(c, "consultor_id")
	if !ok {
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

	items, err := h.byDate.Execute(c.Request.Context(), middleware.Actor(c), consultantID, date)
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_list_appointments")
		return
	}
	if items == nil {
		items = []dto.AppointmentListDTO{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	consultantID, ok := queryUint(c, "consultor_id")
	if !ok {
		return
	}

	items, err := h.byMonth.Execute(c.Request.Context(), middleware.Actor(c), consultantID, year, month)
	if err != nil {
		fail(c, err, appointmentRules, "failed_to_list_appointments")
		return
	}
	if items == nil {
		items = []dto.AppointmentListDTO{}
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}
