package settlement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

func TestCommissionAmount(t *testing.T) {
	cases := []struct {
		amount, pct, want string
	}{
		{"150.00", "15", "22.50"},
		{"99.99", "12.5", "12.50"},
		{"100", "0", "0"},
		{"33.33", "33.33", "11.11"},
	}
	for _, c := range cases {
		got := CommissionAmount(decimal.RequireFromString(c.amount), decimal.RequireFromString(c.pct))
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("CommissionAmount(%s, %s) = %s, want %s", c.amount, c.pct, got, c.want)
		}
	}
}

func TestDeriveCommission(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	enc := &models.Encounter{
		ConsultantID: 7,
		Client:       models.Client{Name: "Ana"},
		Service:      models.Service{Name: "Consulta"},
		ServiceValue: decimal.NewFromInt(150),
	}
	consultant := &models.Consultant{ID: 7, CommissionPercent: decimal.NewFromInt(15)}

	t.Run("inflow", func(t *testing.T) {
		p := &models.Payment{ID: 3, BusinessID: 1, Amount: decimal.NewFromInt(150), TransactionType: "entrada"}
		c, err := DeriveCommission(p, enc, consultant, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.Amount.Equal(decimal.RequireFromString("22.50")) {
			t.Errorf("expected 22.50, got %s", c.Amount)
		}
		if c.PaymentID == nil || *c.PaymentID != 3 {
			t.Error("commission must reference the payment")
		}
		if c.ClientName != "Ana" || c.ServiceName != "Consulta" {
			t.Errorf("missing name snapshots: %+v", c)
		}
	})

	t.Run("outflow is rejected", func(t *testing.T) {
		p := &models.Payment{Amount: decimal.NewFromInt(10), TransactionType: "saida"}
		if _, err := DeriveCommission(p, enc, consultant, now); !httperr.IsBusiness(err, "commission_requires_inflow") {
			t.Errorf("expected commission_requires_inflow, got %v", err)
		}
	})

	t.Run("other consultant", func(t *testing.T) {
		p := &models.Payment{Amount: decimal.NewFromInt(10), TransactionType: "entrada"}
		other := &models.Consultant{ID: 9}
		if _, err := DeriveCommission(p, enc, other, now); !httperr.IsBusiness(err, "consultant_mismatch") {
			t.Errorf("expected consultant_mismatch, got %v", err)
		}
	})
}

func TestSplitInstallments(t *testing.T) {
	first := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)

	t.Run("remainder goes to the first", func(t *testing.T) {
		total := decimal.NewFromInt(100)
		items, err := SplitInstallments(total, 3, first)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 installments, got %d", len(items))
		}
		if !items[0].Amount.Equal(decimal.RequireFromString("33.34")) {
			t.Errorf("first installment = %s", items[0].Amount)
		}
		sum := decimal.Zero
		for i, it := range items {
			sum = sum.Add(it.Amount)
			if it.Number != i+1 {
				t.Errorf("installment %d numbered %d", i, it.Number)
			}
			if it.Status != InstallmentPending {
				t.Errorf("installment %d should be pending", i)
			}
		}
		if !sum.Equal(total) {
			t.Errorf("installments sum to %s, want %s", sum, total)
		}
		if !items[1].DueDate.Equal(first.AddDate(0, 1, 0)) {
			t.Errorf("second due date = %s", items[1].DueDate)
		}
	})

	t.Run("single installment is paid", func(t *testing.T) {
		items, err := SplitInstallments(decimal.RequireFromString("80.50"), 1, first)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items[0].Status != InstallmentPaid || items[0].PaidAt == nil {
			t.Errorf("expected paid installment, got %+v", items[0])
		}
	})

	t.Run("bounds", func(t *testing.T) {
		for _, n := range []int{0, 13} {
			if _, err := SplitInstallments(decimal.NewFromInt(10), n, first); !httperr.IsBusiness(err, "invalid_installments") {
				t.Errorf("n=%d: expected invalid_installments, got %v", n, err)
			}
		}
	})
}

func TestMarkInstallmentPaid(t *testing.T) {
	now := time.Now()
	inst := &models.Installment{Status: InstallmentPending}

	if err := MarkInstallmentPaid(inst, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Status != InstallmentPaid || inst.PaidAt == nil {
		t.Errorf("unexpected installment %+v", inst)
	}
	if err := MarkInstallmentPaid(inst, now); !httperr.IsBusiness(err, "installment_already_paid") {
		t.Errorf("expected installment_already_paid, got %v", err)
	}
}

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{"": Inflow, "entrada": Inflow, "Outflow": Outflow, "saida": Outflow} {
		got, err := ParseTransactionType(in)
		if err != nil || got != want {
			t.Errorf("ParseTransactionType(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseTransactionType("estorno"); err == nil {
		t.Error("expected error")
	}
}

func TestSummarisePending(t *testing.T) {
	unpaid := []models.Encounter{
		{ServiceValue: decimal.NewFromInt(100)},
		{ServiceValue: decimal.NewFromInt(100), FinalValue: decimal.NewNullDecimal(decimal.NewFromInt(80))},
	}
	s := SummarisePending(5, unpaid)
	if !s.Total.Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected 180, got %s", s.Total)
	}

	empty := SummarisePending(5, nil)
	if !empty.Total.IsZero() || empty.Encounters == nil {
		t.Errorf("unexpected empty summary %+v", empty)
	}
}
