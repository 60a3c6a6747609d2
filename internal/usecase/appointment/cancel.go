package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor session.Actor,
	appointmentID uint,
) (*models.Appointment, error) {
	return changeStatus(ctx, uc.repo, uc.audit, actor, appointmentID, "appointment_cancelled", domain.Cancel)
}

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actor session.Actor,
	appointmentID uint,
) (*models.Appointment, error) {
	return changeStatus(ctx, uc.repo, uc.audit, actor, appointmentID, "appointment_confirmed", domain.Confirm)
}

// changeStatus applies a single status action and writes only the status
// columns.
func changeStatus(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	actor session.Actor,
	appointmentID uint,
	action string,
	apply func(*models.Appointment, time.Time) error,
) (*models.Appointment, error) {

	business, err := repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	ap, err := repo.GetAppointment(ctx, actor.BusinessID, appointmentID)
	if err != nil {
		return nil, notFoundAs(err, "appointment_not_found")
	}

	from := ap.Status
	if err := apply(ap, timezone.NowIn(business.Timezone)); err != nil {
		return nil, err
	}
	ap.UpdatedBy = actor.UserRef()

	if err := repo.UpdateStatus(ctx, ap); err != nil {
		return nil, err
	}

	dispatcher.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     action,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]string{
			"from": from,
			"to":   ap.Status,
		},
	})

	return ap, nil
}
