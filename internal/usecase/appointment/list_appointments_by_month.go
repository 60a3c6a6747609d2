package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	actor session.Actor,
	consultantID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 1900 {
		return nil, httperr.ErrBusiness("invalid_period")
	}

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(business.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

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
