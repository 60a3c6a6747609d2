package appointment

import (
	"time"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

type AvailabilityInput struct {
	BusinessID   uint
	ConsultantID uint
	ServiceID    uint
	Date         time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// clock anchors an "HH:MM" string on day's date and location.
func clock(day time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	)
}

// IsWithinWorkingHours validates [start, end) against a consultant's
// configured day, lunch break included.
func IsWithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	if start.Before(clock(start, wh.StartTime)) || end.After(clock(start, wh.EndTime)) {
		return false
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		if start.Before(clock(start, wh.LunchEnd)) && end.After(clock(start, wh.LunchStart)) {
			return false
		}
	}

	return true
}

// FreeSlots walks the working day in steps of duration and keeps slots that
// overlap neither lunch nor any of the busy appointments (sorted by start).
func FreeSlots(
	wh *models.WorkingHours,
	day time.Time,
	duration time.Duration,
	busy []models.Appointment,
) []TimeSlot {
	slots := []TimeSlot{}
	if wh == nil || !wh.Active || duration <= 0 {
		return slots
	}

	dayStart := clock(day, wh.StartTime)
	dayEnd := clock(day, wh.EndTime)

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		lunchStart = clock(day, wh.LunchStart)
		lunchEnd = clock(day, wh.LunchEnd)
	}

	idx := 0
	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(duration) {
		slotStart := cur
		slotEnd := cur.Add(duration)

		// almoço
		if hasLunch && slotStart.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		// skip appointments that already ended
		for idx < len(busy) && !busy[idx].EndTime.After(slotStart) {
			idx++
		}

		conflict := false
		for j := idx; j < len(busy) && busy[j].StartTime.Before(slotEnd); j++ {
			if slotStart.Before(busy[j].EndTime) && slotEnd.After(busy[j].StartTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}
