package settlement

import (
	"context"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/session"
)

// PendingAmount is recomputed from the ledger on every call.
type PendingAmount struct {
	repo domain.Repository
}

func NewPendingAmount(repo domain.Repository) *PendingAmount {
	return &PendingAmount{repo: repo}
}

func (uc *PendingAmount) Execute(
	ctx context.Context,
	actor session.Actor,
	clientID uint,
) (*domain.PendingSummary, error) {

	if _, err := uc.repo.GetClient(ctx, actor.BusinessID, clientID); err != nil {
		return nil, notFoundAs(err, "client_not_found")
	}

	unpaid, err := uc.repo.ListUnpaidEncounters(ctx, actor.BusinessID, clientID)
	if err != nil {
		return nil, err
	}

	summary := domain.SummarisePending(clientID, unpaid)
	return &summary, nil
}
