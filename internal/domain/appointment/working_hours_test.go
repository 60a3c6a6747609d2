package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

func workday() *models.WorkingHours {
	return &models.WorkingHours{
		Weekday:    1,
		Active:     true,
		StartTime:  "09:00",
		EndTime:    "13:00",
		LunchStart: "11:00",
		LunchEnd:   "12:00",
	}
}

func at(h, m int) time.Time {
	return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
}

func TestIsWithinWorkingHours(t *testing.T) {
	wh := workday()

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside morning", at(9, 0), at(10, 0), true},
		{"before opening", at(8, 30), at(9, 30), false},
		{"overlaps lunch", at(10, 30), at(11, 30), false},
		{"after lunch", at(12, 0), at(13, 0), true},
		{"past closing", at(12, 30), at(13, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsWithinWorkingHours(wh, tc.start, tc.end); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	if IsWithinWorkingHours(nil, at(9, 0), at(10, 0)) {
		t.Error("nil schedule must reject")
	}
}

func TestFreeSlots(t *testing.T) {
	busy := []models.Appointment{
		{StartTime: at(10, 0), EndTime: at(11, 0)},
	}

	slots := FreeSlots(workday(), at(0, 0), time.Hour, busy)

	want := []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "12:00", End: "13:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %+v", len(want), slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, slots[i], want[i])
		}
	}

	if got := FreeSlots(&models.WorkingHours{Active: false}, at(0, 0), time.Hour, nil); len(got) != 0 {
		t.Errorf("inactive day should have no slots, got %+v", got)
	}
}
