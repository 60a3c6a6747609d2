package settlement

import (
	"context"

	"github.com/shopspring/decimal"
)

type PixRequest struct {
	Amount      decimal.Decimal
	Description string
	Reference   string
	PayerEmail  string
}

type PixCharge struct {
	ID        string
	Status    string
	QRCode    string
	TicketURL string
}

// PixGateway issues instant-payment charges with an external provider.
type PixGateway interface {
	CreatePix(ctx context.Context, req PixRequest) (*PixCharge, error)
}
