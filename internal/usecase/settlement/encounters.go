package settlement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

// ======================================================
// GET
// ======================================================

type GetEncounter struct {
	repo domain.Repository
}

func NewGetEncounter(repo domain.Repository) *GetEncounter {
	return &GetEncounter{repo: repo}
}

func (uc *GetEncounter) Execute(
	ctx context.Context,
	actor session.Actor,
	encounterID uint,
) (*dto.EncounterDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	enc, err := uc.repo.GetEncounter(ctx, actor.BusinessID, encounterID)
	if err != nil {
		return nil, notFoundAs(err, "encounter_not_found")
	}

	out := dto.NewEncounterDTO(*enc, business.Timezone)
	return &out, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateEncounterInput struct {
	FinalValue      *decimal.Decimal `validate:"omitempty,gte=0"`
	ClearFinalValue bool
	PaymentMethodID *uint
	Procedures      *string `validate:"omitempty,max=5000"`
	Notes           *string `validate:"omitempty,max=5000"`
}

// UpdateEncounter edits an encounter while no payment references it.
type UpdateEncounter struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateEncounter(repo domain.Repository, audit *audit.Dispatcher) *UpdateEncounter {
	return &UpdateEncounter{repo: repo, audit: audit}
}

func (uc *UpdateEncounter) Execute(
	ctx context.Context,
	actor session.Actor,
	encounterID uint,
	in UpdateEncounterInput,
) (*dto.EncounterDTO, error) {

	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	if in.FinalValue != nil {
		if err := validators.Cents("FinalValue", *in.FinalValue); err != nil {
			return nil, err
		}
	}

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	var out dto.EncounterDTO

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		enc, err := tx.GetEncounter(ctx, actor.BusinessID, encounterID)
		if err != nil {
			return notFoundAs(err, "encounter_not_found")
		}

		if err := assertUnsettled(ctx, tx, enc.ID); err != nil {
			return err
		}

		if in.PaymentMethodID != nil {
			method, err := tx.GetActivePaymentMethod(ctx, actor.BusinessID, *in.PaymentMethodID)
			if err != nil {
				return notFoundAs(err, "payment_method_not_found")
			}
			enc.PaymentMethodID = &method.ID
			enc.PaymentMethod = method
		}
		if in.ClearFinalValue {
			enc.FinalValue = decimal.NullDecimal{}
		}
		if in.FinalValue != nil {
			enc.FinalValue = decimal.NewNullDecimal(*in.FinalValue)
		}
		if in.Procedures != nil {
			enc.Procedures = *in.Procedures
		}
		if in.Notes != nil {
			enc.Notes = *in.Notes
		}

		if err := tx.UpdateEncounter(ctx, enc); err != nil {
			return err
		}

		out = dto.NewEncounterDTO(*enc, business.Timezone)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "encounter_updated",
		Entity:     "encounter",
		EntityID:   &out.ID,
	})

	return &out, nil
}

// ======================================================
// CLIENT HISTORY
// ======================================================

type ClientHistory struct {
	repo domain.Repository
}

func NewClientHistory(repo domain.Repository) *ClientHistory {
	return &ClientHistory{repo: repo}
}

// Execute lists every encounter of the client, newest first, with the
// visit count and total spent. Inactive clients keep their history.
func (uc *ClientHistory) Execute(
	ctx context.Context,
	actor session.Actor,
	clientID uint,
) (*dto.ClientHistoryDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	client, err := uc.repo.GetClient(ctx, actor.BusinessID, clientID)
	if err != nil {
		return nil, notFoundAs(err, "client_not_found")
	}

	items, err := uc.repo.ListClientEncounters(ctx, actor.BusinessID, clientID)
	if err != nil {
		return nil, err
	}

	out := &dto.ClientHistoryDTO{
		ClientID:   client.ID,
		ClientName: client.Name,
		Visits:     len(items),
		TotalSpent: decimal.Zero,
		Encounters: make([]dto.EncounterDTO, 0, len(items)),
	}
	for _, enc := range items {
		enc.Client = *client
		out.TotalSpent = out.TotalSpent.Add(enc.AmountDue())
		out.Encounters = append(out.Encounters, dto.NewEncounterDTO(enc, business.Timezone))
	}
	out.TotalSpentLabel = money.FormatBRL(out.TotalSpent)

	return out, nil
}
