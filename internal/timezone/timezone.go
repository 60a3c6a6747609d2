package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

// DisplayDate is the dd/mm/yyyy layout used in every display DTO.
const DisplayDate = "02/01/2006"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func FormatDate(t time.Time, tz string) string {
	return t.In(Location(tz)).Format(DisplayDate)
}

func FormatDateTime(t time.Time, tz string) string {
	return t.In(Location(tz)).Format(DisplayDate + " 15:04")
}
