package settlement

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/session"
)

type ListCommissions struct {
	repo domain.Repository
}

func NewListCommissions(repo domain.Repository) *ListCommissions {
	return &ListCommissions{repo: repo}
}

// Execute reports a consultant's commissions between from and to
// (yyyy-mm-dd, both optional, to inclusive).
func (uc *ListCommissions) Execute(
	ctx context.Context,
	actor session.Actor,
	consultantID uint,
	from string,
	to string,
) (*dto.CommissionReportDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetConsultant(ctx, actor.BusinessID, consultantID); err != nil {
		return nil, notFoundAs(err, "consultant_not_found")
	}

	start, end, err := parseRange(from, to, business.Timezone)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.ListCommissions(ctx, actor.BusinessID, consultantID, start, end)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Commission{}
	}

	total := decimal.Zero
	for _, c := range items {
		total = total.Add(c.Amount)
	}

	return &dto.CommissionReportDTO{
		ConsultantID: consultantID,
		Total:        total,
		TotalLabel:   money.FormatBRL(total),
		Items:        items,
	}, nil
}
