package settlement

import (
	"context"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type ListInstallments struct {
	repo domain.Repository
}

func NewListInstallments(repo domain.Repository) *ListInstallments {
	return &ListInstallments{repo: repo}
}

func (uc *ListInstallments) Execute(
	ctx context.Context,
	actor session.Actor,
	paymentID uint,
) ([]models.Installment, error) {

	if _, err := uc.repo.GetPayment(ctx, actor.BusinessID, paymentID); err != nil {
		return nil, notFoundAs(err, "payment_not_found")
	}

	return uc.repo.ListInstallments(ctx, paymentID)
}

type PayInstallment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewPayInstallment(repo domain.Repository, audit *audit.Dispatcher) *PayInstallment {
	return &PayInstallment{repo: repo, audit: audit}
}

func (uc *PayInstallment) Execute(
	ctx context.Context,
	actor session.Actor,
	installmentID uint,
) (*models.Installment, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	inst, err := uc.repo.GetInstallment(ctx, actor.BusinessID, installmentID)
	if err != nil {
		return nil, notFoundAs(err, "installment_not_found")
	}

	if err := domain.MarkInstallmentPaid(inst, timezone.NowIn(business.Timezone)); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateInstallment(ctx, inst); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "installment_paid",
		Entity:     "installment",
		EntityID:   &inst.ID,
	})

	return inst, nil
}
