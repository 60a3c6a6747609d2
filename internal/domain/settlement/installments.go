package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

// SplitInstallments divides total into n monthly installments. Each share
// is truncated to cents and the leftover cents go to the first one, so the
// shares always add up to total. A single installment is born paid.
func SplitInstallments(total decimal.Decimal, n int, first time.Time) ([]models.Installment, error) {
	if n < 1 || n > MaxInstallments {
		return nil, httperr.ErrBusiness("invalid_installments")
	}

	share := total.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	remainder := total.Sub(share.Mul(decimal.NewFromInt(int64(n))))

	out := make([]models.Installment, 0, n)
	for i := 0; i < n; i++ {
		amount := share
		if i == 0 {
			amount = amount.Add(remainder)
		}

		inst := models.Installment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: first.AddDate(0, i, 0),
			Status:  InstallmentPending,
		}
		if n == 1 {
			paidAt := first
			inst.Status = InstallmentPaid
			inst.PaidAt = &paidAt
		}
		out = append(out, inst)
	}

	return out, nil
}

func MarkInstallmentPaid(inst *models.Installment, now time.Time) error {
	if inst.Status == InstallmentPaid {
		return httperr.ErrBusiness("installment_already_paid")
	}
	inst.Status = InstallmentPaid
	inst.PaidAt = &now
	return nil
}
