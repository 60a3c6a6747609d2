package appointment

import (
	"context"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

// UpdateAppointmentInput changes only the fields that are set. Date and
// Time must be sent together.
type UpdateAppointmentInput struct {
	Date  *string `validate:"omitempty,date"`
	Time  *string `validate:"omitempty,hhmm"`
	Notes *string `validate:"omitempty,max=500"`
}

// UpdateAppointment reschedules an appointment or edits its notes while it
// is still scheduled or confirmed.
type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	actor session.Actor,
	appointmentID uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	if (in.Date == nil) != (in.Time == nil) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, actor.BusinessID, appointmentID)
	if err != nil {
		return nil, notFoundAs(err, "appointment_not_found")
	}

	if err := domain.CanEdit(ap); err != nil {
		return nil, err
	}

	meta := map[string]string{}

	if in.Date != nil && in.Time != nil {
		start, err := parseSlot(business, *in.Date, *in.Time)
		if err != nil {
			return nil, err
		}
		end := start.Add(ap.EndTime.Sub(ap.StartTime))

		if err := checkWorkingHours(ctx, uc.repo, ap.ConsultantID, start, end); err != nil {
			return nil, err
		}

		meta["from"] = timezone.FormatDateTime(ap.StartTime, business.Timezone)
		meta["to"] = timezone.FormatDateTime(start, business.Timezone)
		ap.StartTime = start
		ap.EndTime = end
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	ap.UpdatedBy = actor.UserRef()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.AssertNoTimeConflict(ctx, ap.ConsultantID, ap.StartTime, ap.EndTime, ap.ID); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "appointment_updated",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   meta,
	})

	return ap, nil
}
