package validators

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
)

type sample struct {
	Date   string          `validate:"required,date"`
	Time   string          `validate:"required,hhmm"`
	Amount decimal.Decimal `validate:"gt=0"`
	Parts  int             `validate:"min=1,max=12"`
}

func TestStruct(t *testing.T) {
	ok := sample{Date: "2025-03-10", Time: "09:30", Amount: decimal.RequireFromString("0.01"), Parts: 12}
	if err := Struct(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := sample{Date: "10/03/2025", Time: "9h", Amount: decimal.Zero, Parts: 13}
	err := Struct(bad)
	if !httperr.IsBusiness(err, "invalid_input") {
		t.Fatalf("expected invalid_input, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 4 {
		t.Errorf("expected 4 failing fields, got %v", err)
	}
}

func TestCents(t *testing.T) {
	for _, v := range []string{"10", "10.5", "10.05", "10.500", "0.01"} {
		if err := Cents("Amount", decimal.RequireFromString(v)); err != nil {
			t.Errorf("%s should be accepted: %v", v, err)
		}
	}

	err := Cents("Amount", decimal.RequireFromString("10.005"))
	if !httperr.IsBusiness(err, "invalid_input") {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields[0] != "Amount(cents)" {
		t.Errorf("unexpected fields %+v", verr)
	}
}
