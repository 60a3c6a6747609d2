package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
)

// CommissionAmount is round(amount * percent / 100, 2).
func CommissionAmount(amount, percent decimal.Decimal) decimal.Decimal {
	return money.Percent(amount, percent)
}

// DeriveCommission builds the commission owed for an inflow payment. The
// encounter must have its client, service and consultant loaded.
func DeriveCommission(
	p *models.Payment,
	enc *models.Encounter,
	consultant *models.Consultant,
	now time.Time,
) (*models.Commission, error) {
	if TransactionType(p.TransactionType) != Inflow {
		return nil, httperr.ErrBusiness("commission_requires_inflow")
	}
	if consultant.ID != enc.ConsultantID {
		return nil, httperr.ErrBusiness("consultant_mismatch")
	}

	paymentID := p.ID
	return &models.Commission{
		BusinessID:   p.BusinessID,
		ConsultantID: consultant.ID,
		PaymentID:    &paymentID,
		ClientName:   enc.Client.Name,
		ServiceName:  enc.Service.Name,
		ServiceValue: enc.AmountDue(),
		Percent:      consultant.CommissionPercent,
		Amount:       CommissionAmount(p.Amount, consultant.CommissionPercent),
		Operation:    string(Inflow),
		OperatedAt:   now,
	}, nil
}
