package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetActiveConsultant(ctx, in.BusinessID, in.ConsultantID); err != nil {
		return nil, notFoundAs(err, "consultant_not_found")
	}

	service, err := uc.repo.GetActiveService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, notFoundAs(err, "service_not_found")
	}

	loc := timezone.Location(business.Timezone)
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)

	wh, err := uc.repo.GetWorkingHours(ctx, in.ConsultantID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if wh == nil || !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	busy, err := uc.repo.ListBusyForDay(ctx, in.ConsultantID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	return domain.FreeSlots(wh, day, duration, busy), nil
}
