package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type PaymentDTO struct {
	models.Payment
	Date        string               `json:"data"`
	AmountLabel string               `json:"valor_formatado"`
	Schedule    []models.Installment `json:"parcelas,omitempty"`
	Commission  *models.Commission   `json:"comissao,omitempty"`
}

func NewPaymentDTO(p models.Payment, tz string) PaymentDTO {
	return PaymentDTO{
		Payment:     p,
		Date:        timezone.FormatDate(p.PaidAt, tz),
		AmountLabel: money.FormatBRL(p.Amount),
	}
}

type CommissionReportDTO struct {
	ConsultantID uint                `json:"consultor_id"`
	Total        decimal.Decimal     `json:"total"`
	TotalLabel   string              `json:"total_formatado"`
	Items        []models.Commission `json:"comissoes"`
}

type PixChargeDTO struct {
	PaymentID uint   `json:"pagamento_id"`
	GatewayID string `json:"gateway_id"`
	Status    string `json:"status"`
	QRCode    string `json:"qr_code"`
	TicketURL string `json:"ticket_url"`
}
