package settlement

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/session"
)

type CreatePixCharge struct {
	repo    domain.Repository
	gateway domain.PixGateway
	audit   *audit.Dispatcher
}

// NewCreatePixCharge accepts a nil gateway when no provider is configured.
func NewCreatePixCharge(
	repo domain.Repository,
	gateway domain.PixGateway,
	audit *audit.Dispatcher,
) *CreatePixCharge {
	return &CreatePixCharge{repo: repo, gateway: gateway, audit: audit}
}

func (uc *CreatePixCharge) Execute(
	ctx context.Context,
	actor session.Actor,
	paymentID uint,
) (*dto.PixChargeDTO, error) {

	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payment_gateway_disabled")
	}

	p, err := uc.repo.GetPayment(ctx, actor.BusinessID, paymentID)
	if err != nil {
		return nil, notFoundAs(err, "payment_not_found")
	}
	if domain.TransactionType(p.TransactionType) != domain.Inflow {
		return nil, httperr.ErrBusiness("pix_requires_inflow")
	}
	if p.GatewayID != "" {
		return nil, httperr.ErrBusiness("pix_already_issued")
	}

	enc, err := uc.repo.GetEncounter(ctx, actor.BusinessID, p.EncounterID)
	if err != nil {
		return nil, notFoundAs(err, "encounter_not_found")
	}

	charge, err := uc.gateway.CreatePix(ctx, domain.PixRequest{
		Amount:      p.Amount,
		Description: fmt.Sprintf("%s - %s", enc.Service.Name, enc.Client.Name),
		Reference:   fmt.Sprintf("pagamento-%d", p.ID),
		PayerEmail:  enc.Client.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create pix charge: %w", err)
	}

	p.GatewayID = charge.ID
	p.GatewayStatus = charge.Status
	if err := uc.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "pix_charge_created",
		Entity:     "payment",
		EntityID:   &p.ID,
		Metadata:   map[string]string{"gateway_id": charge.ID},
	})

	return &dto.PixChargeDTO{
		PaymentID: p.ID,
		GatewayID: charge.ID,
		Status:    charge.Status,
		QRCode:    charge.QRCode,
		TicketURL: charge.TicketURL,
	}, nil
}
