package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusFulfilled Status = "fulfilled"
)

var aliases = map[string]Status{
	"scheduled":  StatusScheduled,
	"agendado":   StatusScheduled,
	"confirmed":  StatusConfirmed,
	"confirmado": StatusConfirmed,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"cancelado":  StatusCancelled,
	"fulfilled":  StatusFulfilled,
	"realizado":  StatusFulfilled,
	"concluido":  StatusFulfilled,
	"completed":  StatusFulfilled,
}

// transitions is the whole lifecycle; pairs not listed are rejected.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusFulfilled},
}

// ParseStatus normalises stored or requested spellings, including the legacy
// Portuguese ones, into the closed enum.
func ParseStatus(s string) (Status, error) {
	if st, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Active statuses still hold the consultant's time slot.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// ActiveStatuses are the stored values that block a consultant's slot.
func ActiveStatuses() []string {
	return []string{string(StatusScheduled), string(StatusConfirmed)}
}

// ===============================
// Validations
// ===============================

type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid appointment transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return httperr.ErrBusiness("invalid_transition")
}

func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

func InitialStatus() Status {
	return StatusScheduled
}
