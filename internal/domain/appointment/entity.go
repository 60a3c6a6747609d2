package appointment

import (
	"time"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := transition(ap, StatusConfirmed); err != nil {
		return err
	}
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := transition(ap, StatusCancelled); err != nil {
		return err
	}
	ap.CancelledAt = &now
	return nil
}

// Fulfill marks the appointment as served. Only the encounter derivation
// calls it, inside the same transaction that writes the encounter.
func Fulfill(ap *models.Appointment, now time.Time) error {
	if err := transition(ap, StatusFulfilled); err != nil {
		return err
	}
	ap.FulfilledAt = &now
	return nil
}

// CanEdit reports whether date, time or notes may still change.
func CanEdit(ap *models.Appointment) error {
	current, err := ParseStatus(ap.Status)
	if err != nil {
		return err
	}
	if !current.Active() {
		return &TransitionError{From: current, To: current}
	}
	return nil
}

func transition(ap *models.Appointment, to Status) error {
	current, err := ParseStatus(ap.Status)
	if err != nil {
		return err
	}
	if err := CanTransition(current, to); err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}
