package settlement

import (
	"context"
	"time"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

type PaymentFilter struct {
	From time.Time
	To   time.Time
	Type TransactionType
}

type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	GetBusinessByID(ctx context.Context, id uint) (*models.Business, error)

	// GetEncounter loads the encounter with client, consultant and service.
	GetEncounter(ctx context.Context, businessID, encounterID uint) (*models.Encounter, error)
	UpdateEncounter(ctx context.Context, enc *models.Encounter) error
	// ListClientEncounters includes encounters of inactive registry rows.
	ListClientEncounters(ctx context.Context, businessID, clientID uint) ([]models.Encounter, error)
	CountEncounterPayments(ctx context.Context, encounterID uint) (int64, error)

	// GetClient ignores the active flag.
	GetClient(ctx context.Context, businessID, clientID uint) (*models.Client, error)
	GetConsultant(ctx context.Context, businessID, consultantID uint) (*models.Consultant, error)
	GetActivePaymentMethod(ctx context.Context, businessID, methodID uint) (*models.PaymentMethod, error)

	CountPayments(ctx context.Context, encounterID uint, typ TransactionType) (int64, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, businessID, paymentID uint) (*models.Payment, error)
	UpdatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, businessID uint, f PaymentFilter) ([]models.Payment, error)

	CreateInstallments(ctx context.Context, items []models.Installment) error
	ListInstallments(ctx context.Context, paymentID uint) ([]models.Installment, error)
	GetInstallment(ctx context.Context, businessID, installmentID uint) (*models.Installment, error)
	UpdateInstallment(ctx context.Context, inst *models.Installment) error

	CreateCommission(ctx context.Context, c *models.Commission) error
	ListCommissions(
		ctx context.Context,
		businessID uint,
		consultantID uint,
		from time.Time,
		to time.Time,
	) ([]models.Commission, error)

	// ListUnpaidEncounters is the anti-join: the client's encounters that
	// no payment row references.
	ListUnpaidEncounters(ctx context.Context, businessID, clientID uint) ([]models.Encounter, error)
}
