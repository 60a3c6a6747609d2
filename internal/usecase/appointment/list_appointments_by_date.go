package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists the business day of date. consultantID 0 lists everyone.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	actor session.Actor,
	consultantID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(business.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		actor.BusinessID,
		consultantID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments, business.Timezone), nil
}

func toListDTO(appointments []models.Appointment, tz string) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap, tz))
	}
	return out
}
