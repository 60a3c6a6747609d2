package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreatePaymentInput struct {
	EncounterID     uint            `validate:"required"`
	PaymentMethodID uint            `validate:"required"`
	Amount          decimal.Decimal `validate:"gt=0"`
	Installments    int             `validate:"min=1,max=12"`
	TransactionType string
	// yyyy-mm-dd in the business timezone; empty means now.
	Date  string `validate:"omitempty,date"`
	Notes string `validate:"max=500"`
}

// ======================================================
// USE CASE
// ======================================================

type CreatePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	// singlePayment rejects a second inflow for the same encounter.
	singlePayment bool
}

func NewCreatePayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	singlePayment bool,
) *CreatePayment {
	return &CreatePayment{
		repo:          repo,
		audit:         audit,
		singlePayment: singlePayment,
	}
}

// Execute records the payment, its installments and, for inflows, the
// consultant commission. Nothing is written unless every row is.
func (uc *CreatePayment) Execute(
	ctx context.Context,
	actor session.Actor,
	in CreatePaymentInput,
) (*dto.PaymentDTO, error) {

	if in.Installments == 0 {
		in.Installments = 1
	}
	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	if err := validators.Cents("Amount", in.Amount); err != nil {
		return nil, err
	}

	typ, err := domain.ParseTransactionType(in.TransactionType)
	if err != nil {
		return nil, err
	}

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(business.Timezone)
	paidAt := now
	if in.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", in.Date, timezone.Location(business.Timezone))
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		paidAt = time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, day.Location())
	}

	var (
		payment    *models.Payment
		schedule   []models.Installment
		commission *models.Commission
	)

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1️⃣ Atendimento + forma de pagamento
		// --------------------------------------------------
		enc, err := tx.GetEncounter(ctx, actor.BusinessID, in.EncounterID)
		if err != nil {
			return notFoundAs(err, "encounter_not_found")
		}

		if _, err := tx.GetActivePaymentMethod(ctx, actor.BusinessID, in.PaymentMethodID); err != nil {
			return notFoundAs(err, "payment_method_not_found")
		}

		if uc.singlePayment && typ == domain.Inflow {
			n, err := tx.CountPayments(ctx, enc.ID, domain.Inflow)
			if err != nil {
				return err
			}
			if n > 0 {
				return httperr.ErrBusiness("encounter_already_settled")
			}
		}

		// --------------------------------------------------
		// 2️⃣ Pagamento
		// --------------------------------------------------
		payment = &models.Payment{
			BusinessID:      actor.BusinessID,
			EncounterID:     enc.ID,
			ClientID:        enc.ClientID,
			ConsultantID:    enc.ConsultantID,
			ServiceID:       enc.ServiceID,
			PaymentMethodID: in.PaymentMethodID,
			Amount:          in.Amount,
			OriginalAmount:  decimal.NewNullDecimal(enc.AmountDue()),
			Installments:    in.Installments,
			TransactionType: string(typ),
			PaidAt:          paidAt,
			Notes:           in.Notes,
			CreatedBy:       actor.UserRef(),
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Parcelas
		// --------------------------------------------------
		schedule, err = domain.SplitInstallments(in.Amount, in.Installments, paidAt)
		if err != nil {
			return err
		}
		for i := range schedule {
			schedule[i].PaymentID = payment.ID
		}
		if err := tx.CreateInstallments(ctx, schedule); err != nil {
			return err
		}

		// --------------------------------------------------
		// 4️⃣ Comissão (somente entradas)
		// --------------------------------------------------
		if typ != domain.Inflow {
			return nil
		}

		consultant, err := tx.GetConsultant(ctx, actor.BusinessID, enc.ConsultantID)
		if err != nil {
			return notFoundAs(err, "consultant_not_found")
		}

		commission, err = domain.DeriveCommission(payment, enc, consultant, now)
		if err != nil {
			return err
		}
		return tx.CreateCommission(ctx, commission)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "payment_created",
		Entity:     "payment",
		EntityID:   &payment.ID,
		Metadata: map[string]string{
			"valor":          payment.Amount.StringFixed(2),
			"tipo_transacao": payment.TransactionType,
		},
	})

	out := dto.NewPaymentDTO(*payment, business.Timezone)
	out.Schedule = schedule
	out.Commission = commission
	return &out, nil
}

func notFoundAs(err error, code string) error {
	if httperr.IsNotFound(err) {
		return httperr.ErrBusiness(code)
	}
	return err
}
