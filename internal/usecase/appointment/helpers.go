package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

// parseSlot reads date and time in the business timezone and enforces the
// minimum advance.
func parseSlot(business *models.Business, date, hm string) (time.Time, error) {
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		date+" "+hm,
		timezone.Location(business.Timezone),
	)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(business.Timezone)
	minAdvance := time.Duration(business.MinAdvanceMinutes) * time.Minute
	if start.Before(now.Add(minAdvance)) {
		return time.Time{}, httperr.ErrBusiness("too_soon")
	}

	return start, nil
}

// checkWorkingHours only applies to consultants with a configured schedule.
func checkWorkingHours(
	ctx context.Context,
	repo domain.Repository,
	consultantID uint,
	start time.Time,
	end time.Time,
) error {
	configured, err := repo.HasWorkingHours(ctx, consultantID)
	if err != nil {
		return err
	}
	if !configured {
		return nil
	}

	wh, err := repo.GetWorkingHours(ctx, consultantID, int(start.Weekday()))
	if err != nil {
		return err
	}
	if !domain.IsWithinWorkingHours(wh, start, end) {
		return httperr.ErrBusiness("outside_working_hours")
	}
	return nil
}

func notFoundAs(err error, code string) error {
	if httperr.IsNotFound(err) {
		return httperr.ErrBusiness(code)
	}
	return err
}
