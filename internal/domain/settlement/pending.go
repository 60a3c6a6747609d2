package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
)

type PendingSummary struct {
	ClientID   uint               `json:"cliente_id"`
	Total      decimal.Decimal    `json:"total"`
	TotalLabel string             `json:"total_formatado"`
	Encounters []models.Encounter `json:"atendimentos"`
}

// SummarisePending totals the amount due of encounters that no payment
// references yet.
func SummarisePending(clientID uint, unpaid []models.Encounter) PendingSummary {
	total := decimal.Zero
	for i := range unpaid {
		total = total.Add(unpaid[i].AmountDue())
	}
	if unpaid == nil {
		unpaid = []models.Encounter{}
	}
	return PendingSummary{
		ClientID:   clientID,
		Total:      total,
		TotalLabel: money.FormatBRL(total),
		Encounters: unpaid,
	}
}
