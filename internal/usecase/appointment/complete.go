package appointment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

type CompleteAppointmentInput struct {
	FinalValue      *decimal.Decimal `validate:"omitempty,gte=0"`
	PaymentMethodID *uint
	Procedures      string `validate:"max=5000"`
	Notes           string `validate:"max=5000"`
}

// CompleteAppointment fulfils a confirmed appointment and derives its
// encounter. Both writes share one transaction.
type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor session.Actor,
	appointmentID uint,
	in CompleteAppointmentInput,
) (*models.Encounter, error) {

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
	now := timezone.NowIn(business.Timezone)

	var enc *models.Encounter

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, actor.BusinessID, appointmentID)
		if err != nil {
			return notFoundAs(err, "appointment_not_found")
		}

		if in.PaymentMethodID != nil {
			if _, err := tx.GetActivePaymentMethod(ctx, actor.BusinessID, *in.PaymentMethodID); err != nil {
				return notFoundAs(err, "payment_method_not_found")
			}
		}

		if err := domain.Fulfill(ap, now); err != nil {
			return err
		}
		ap.UpdatedBy = actor.UserRef()

		if err := tx.UpdateStatus(ctx, ap); err != nil {
			return err
		}

		scheduled := ap.StartTime
		enc = &models.Encounter{
			BusinessID:       actor.BusinessID,
			AppointmentID:    ap.ID,
			ClientID:         ap.ClientID,
			ConsultantID:     ap.ConsultantID,
			ServiceID:        ap.ServiceID,
			ScheduledAt:      &scheduled,
			ServedAt:         now,
			ServiceValue:     ap.ServiceValue,
			CommissionAmount: ap.CommissionAmount,
			PaymentMethodID:  in.PaymentMethodID,
			Procedures:       in.Procedures,
			Notes:            in.Notes,
		}
		if in.FinalValue != nil {
			enc.FinalValue = decimal.NewNullDecimal(*in.FinalValue)
		}

		if err := tx.CreateEncounter(ctx, enc); err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrBusiness("encounter_exists")
			}
			return err
		}

		enc.Client = ap.Client
		enc.Consultant = ap.Consultant
		enc.Service = ap.Service
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "appointment_fulfilled",
		Entity:     "encounter",
		EntityID:   &enc.ID,
		Metadata: map[string]uint{
			"agenda_id": enc.AppointmentID,
		},
	})

	return enc, nil
}
