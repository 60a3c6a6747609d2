// Package gateway talks to the external payment provider.
package gateway

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/BruksfildServices01/consultapp/internal/domain/settlement"
)

// PaymentCreator is the slice of the Mercado Pago payment client used here.
type PaymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

type MercadoPago struct {
	client PaymentCreator
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{client: payment.NewClient(cfg)}, nil
}

func NewMercadoPagoWithClient(client PaymentCreator) *MercadoPago {
	return &MercadoPago{client: client}
}

func (m *MercadoPago) CreatePix(ctx context.Context, req settlement.PixRequest) (*settlement.PixCharge, error) {
	amount, _ := req.Amount.Round(2).Float64()

	resource, err := m.client.Create(ctx, payment.Request{
		TransactionAmount: amount,
		PaymentMethodID:   "pix",
		Description:       req.Description,
		ExternalReference: req.Reference,
		Payer: &payment.PayerRequest{
			Email: req.PayerEmail,
		},
	})
	if err != nil {
		return nil, err
	}

	return &settlement.PixCharge{
		ID:        fmt.Sprint(resource.ID),
		Status:    resource.Status,
		QRCode:    resource.PointOfInteraction.TransactionData.QRCode,
		TicketURL: resource.PointOfInteraction.TransactionData.TicketURL,
	}, nil
}

var _ settlement.PixGateway = (*MercadoPago)(nil)
