package settlement

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type GetPayment struct {
	repo domain.Repository
}

func NewGetPayment(repo domain.Repository) *GetPayment {
	return &GetPayment{repo: repo}
}

func (uc *GetPayment) Execute(
	ctx context.Context,
	actor session.Actor,
	paymentID uint,
) (*dto.PaymentDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	p, err := uc.repo.GetPayment(ctx, actor.BusinessID, paymentID)
	if err != nil {
		return nil, notFoundAs(err, "payment_not_found")
	}

	schedule, err := uc.repo.ListInstallments(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	out := dto.NewPaymentDTO(*p, business.Timezone)
	out.Schedule = schedule
	return &out, nil
}

// ListPaymentsInput takes yyyy-mm-dd bounds; To is inclusive.
type ListPaymentsInput struct {
	From string
	To   string
	Type string
}

type ListPayments struct {
	repo domain.Repository
}

func NewListPayments(repo domain.Repository) *ListPayments {
	return &ListPayments{repo: repo}
}

func (uc *ListPayments) Execute(
	ctx context.Context,
	actor session.Actor,
	in ListPaymentsInput,
) ([]dto.PaymentDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	from, to, err := parseRange(in.From, in.To, business.Timezone)
	if err != nil {
		return nil, err
	}

	f := domain.PaymentFilter{From: from, To: to}
	if in.Type != "" {
		if f.Type, err = domain.ParseTransactionType(in.Type); err != nil {
			return nil, err
		}
	}

	items, err := uc.repo.ListPayments(ctx, actor.BusinessID, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PaymentDTO, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewPaymentDTO(p, business.Timezone))
	}
	return out, nil
}

// parseRange turns optional yyyy-mm-dd bounds into [from, to+1day).
func parseRange(from, to, tz string) (time.Time, time.Time, error) {
	loc := timezone.Location(tz)
	var start, end time.Time

	if from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return start, end, httperr.ErrBusiness("invalid_period")
		}
		start = d
	}
	if to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return start, end, httperr.ErrBusiness("invalid_period")
		}
		end = d.AddDate(0, 0, 1)
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return start, end, httperr.ErrBusiness("invalid_period")
	}

	return start, end, nil
}
