package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Date      string    `json:"data"`
	Hour      string    `json:"hora"`
	Status    string    `json:"status"`

	ClientID       uint   `json:"cliente_id"`
	ClientName     string `json:"cliente_nome"`
	ConsultantID   uint   `json:"consultor_id"`
	ConsultantName string `json:"consultor_nome"`
	ServiceID      uint   `json:"servico_id"`
	ServiceName    string `json:"servico_nome"`

	ServiceValue      decimal.Decimal `json:"valor_servico"`
	ServiceValueLabel string          `json:"valor_servico_formatado"`
	Commission        decimal.Decimal `json:"comissao_consultor"`
	Notes             string          `json:"observacoes"`
}

// NewAppointmentListDTO expects Client, Consultant and Service preloaded.
func NewAppointmentListDTO(ap models.Appointment, tz string) AppointmentListDTO {
	loc := timezone.Location(tz)
	start := ap.StartTime.In(loc)

	return AppointmentListDTO{
		ID:        ap.ID,
		StartTime: start,
		EndTime:   ap.EndTime.In(loc),
		Date:      start.Format(timezone.DisplayDate),
		Hour:      start.Format("15:04"),
		Status:    ap.Status,

		ClientID:       ap.ClientID,
		ClientName:     ap.Client.Name,
		ConsultantID:   ap.ConsultantID,
		ConsultantName: ap.Consultant.Name,
		ServiceID:      ap.ServiceID,
		ServiceName:    ap.Service.Name,

		ServiceValue:      ap.ServiceValue,
		ServiceValueLabel: money.FormatBRL(ap.ServiceValue),
		Commission:        ap.CommissionAmount,
		Notes:             ap.Notes,
	}
}
