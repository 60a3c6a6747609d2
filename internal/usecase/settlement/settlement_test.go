package settlement

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/infra/repository"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/testutil"
)

type env struct {
	db    *gorm.DB
	f     *testutil.Fixture
	repo  *repository.SettlementGormRepository
	actor session.Actor
	enc   *models.Encounter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	return &env{
		db:    db,
		f:     f,
		repo:  repository.NewSettlementGormRepository(db),
		actor: session.Actor{UserID: f.User.ID, BusinessID: f.Business.ID, Role: "owner"},
		enc:   f.Encounter(t, db, time.Now().Add(-time.Hour)),
	}
}

func (e *env) pay(t *testing.T, amount string, installments int) error {
	t.Helper()
	_, err := NewCreatePayment(e.repo, nil, false).Execute(context.Background(), e.actor, CreatePaymentInput{
		EncounterID:     e.enc.ID,
		PaymentMethodID: e.f.Method.ID,
		Amount:          decimal.RequireFromString(amount),
		Installments:    installments,
	})
	return err
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func (e *env) pending(t *testing.T) decimal.Decimal {
	t.Helper()
	s, err := NewPendingAmount(e.repo).Execute(context.Background(), e.actor, e.f.Client.ID)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	return s.Total
}

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("single installment with commission", func(t *testing.T) {
		e := newEnv(t)

		out, err := NewCreatePayment(e.repo, nil, false).Execute(ctx, e.actor, CreatePaymentInput{
			EncounterID:     e.enc.ID,
			PaymentMethodID: e.f.Method.ID,
			Amount:          decimal.NewFromInt(150),
		})
		if err != nil {
			t.Fatalf("create payment: %v", err)
		}

		if out.ClientID != e.f.Client.ID || out.ConsultantID != e.f.Consultant.ID || out.ServiceID != e.f.Service.ID {
			t.Errorf("refs not copied from the encounter: %+v", out.Payment)
		}
		if !out.OriginalAmount.Valid || !out.OriginalAmount.Decimal.Equal(decimal.NewFromInt(150)) {
			t.Errorf("valor_original should be 150, got %+v", out.OriginalAmount)
		}
		if out.TransactionType != string(domain.Inflow) || out.AmountLabel != "R$ 150,00" {
			t.Errorf("unexpected payment %+v", out)
		}
		if len(out.Schedule) != 1 || out.Schedule[0].Status != domain.InstallmentPaid {
			t.Errorf("expected one paid installment, got %+v", out.Schedule)
		}

		var c models.Commission
		if err := e.db.Where("pagamento_id = ?", out.ID).First(&c).Error; err != nil {
			t.Fatalf("commission not stored: %v", err)
		}
		if !c.Amount.Equal(decimal.RequireFromString("22.50")) || c.ConsultantID != e.f.Consultant.ID {
			t.Errorf("unexpected commission %+v", c)
		}
		if c.ClientName != e.f.Client.Name || c.ServiceName != e.f.Service.Name {
			t.Errorf("commission should snapshot names: %+v", c)
		}
	})

	t.Run("amount beyond cents", func(t *testing.T) {
		e := newEnv(t)
		if err := e.pay(t, "10.005", 1); !httperr.IsBusiness(err, "invalid_input") {
			t.Fatalf("expected invalid_input, got %v", err)
		}
		if n := e.count(t, &models.Payment{}); n != 0 {
			t.Errorf("no payment should be stored, found %d", n)
		}
		if err := e.pay(t, "10.050", 1); err != nil {
			t.Errorf("trailing zero must be accepted: %v", err)
		}
	})

	t.Run("installments add up", func(t *testing.T) {
		e := newEnv(t)
		if err := e.pay(t, "100", 3); err != nil {
			t.Fatal(err)
		}

		var items []models.Installment
		e.db.Order("numero_parcela").Find(&items)
		if len(items) != 3 {
			t.Fatalf("expected 3 installments, got %d", len(items))
		}
		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.Amount)
			if it.Status != domain.InstallmentPending {
				t.Errorf("installment %d should be pending", it.Number)
			}
		}
		if !sum.Equal(decimal.NewFromInt(100)) {
			t.Errorf("installments sum to %s", sum)
		}
	})

	t.Run("divergent amount is accepted", func(t *testing.T) {
		e := newEnv(t)
		if err := e.pay(t, "90", 1); err != nil {
			t.Fatalf("expected divergent amount to be accepted: %v", err)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		e := newEnv(t)
		if err := e.pay(t, "0", 1); !httperr.IsBusiness(err, "invalid_input") {
			t.Errorf("zero amount: got %v", err)
		}
		if err := e.pay(t, "10", 13); !httperr.IsBusiness(err, "invalid_input") {
			t.Errorf("13 installments: got %v", err)
		}

		_, err := NewCreatePayment(e.repo, nil, false).Execute(ctx, e.actor, CreatePaymentInput{
			EncounterID:     e.enc.ID + 99,
			PaymentMethodID: e.f.Method.ID,
			Amount:          decimal.NewFromInt(10),
		})
		if !httperr.IsBusiness(err, "encounter_not_found") {
			t.Errorf("unknown encounter: got %v", err)
		}
	})

	t.Run("rolls back when the commission cannot be derived", func(t *testing.T) {
		e := newEnv(t)
		if err := e.db.Delete(&models.Consultant{}, e.f.Consultant.ID).Error; err != nil {
			t.Fatal(err)
		}

		err := e.pay(t, "150", 2)
		if !httperr.IsBusiness(err, "consultant_not_found") {
			t.Fatalf("expected consultant_not_found, got %v", err)
		}

		if n := e.count(t, &models.Payment{}); n != 0 {
			t.Errorf("payment must roll back, found %d", n)
		}
		if n := e.count(t, &models.Installment{}); n != 0 {
			t.Errorf("installments must roll back, found %d", n)
		}
		if n := e.count(t, &models.Commission{}); n != 0 {
			t.Errorf("commissions must roll back, found %d", n)
		}
	})

	t.Run("outflow has no commission", func(t *testing.T) {
		e := newEnv(t)
		_, err := NewCreatePayment(e.repo, nil, false).Execute(ctx, e.actor, CreatePaymentInput{
			EncounterID:     e.enc.ID,
			PaymentMethodID: e.f.Method.ID,
			Amount:          decimal.NewFromInt(20),
			TransactionType: "saida",
		})
		if err != nil {
			t.Fatal(err)
		}
		if n := e.count(t, &models.Commission{}); n != 0 {
			t.Errorf("outflow must not create commission, found %d", n)
		}
	})
}

func TestDuplicatePayments(t *testing.T) {
	ctx := context.Background()

	t.Run("permitted by default", func(t *testing.T) {
		e := newEnv(t)
		if err := e.pay(t, "150", 1); err != nil {
			t.Fatal(err)
		}
		if err := e.pay(t, "150", 1); err != nil {
			t.Fatalf("second payment should be accepted: %v", err)
		}
		if n := e.count(t, &models.Commission{}); n != 2 {
			t.Errorf("expected 2 commissions, got %d", n)
		}
	})

	t.Run("single payment mode", func(t *testing.T) {
		e := newEnv(t)
		uc := NewCreatePayment(e.repo, nil, true)
		in := CreatePaymentInput{
			EncounterID:     e.enc.ID,
			PaymentMethodID: e.f.Method.ID,
			Amount:          decimal.NewFromInt(150),
		}
		if _, err := uc.Execute(ctx, e.actor, in); err != nil {
			t.Fatal(err)
		}
		if _, err := uc.Execute(ctx, e.actor, in); !httperr.IsBusiness(err, "encounter_already_settled") {
			t.Errorf("expected encounter_already_settled, got %v", err)
		}

		in.TransactionType = "saida"
		in.Amount = decimal.NewFromInt(10)
		if _, err := uc.Execute(ctx, e.actor, in); err != nil {
			t.Errorf("outflow should still be accepted: %v", err)
		}
	})
}

func TestPendingAmount(t *testing.T) {
	e := newEnv(t)
	second := e.f.Encounter(t, e.db, time.Now().Add(-2*time.Hour))

	if got := e.pending(t); !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected 300 pending, got %s", got)
	}

	if err := e.pay(t, "150", 1); err != nil {
		t.Fatal(err)
	}
	if got := e.pending(t); !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected 150 pending after payment, got %s", got)
	}

	// valor_final takes precedence over valor_servico
	e.db.Model(&models.Encounter{}).Where("id = ?", second.ID).Update("valor_final", "80.00")
	if got := e.pending(t); !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected 80 pending, got %s", got)
	}

	// removing the payment makes the encounter pending again
	e.db.Where("1 = 1").Delete(&models.Installment{})
	e.db.Where("1 = 1").Delete(&models.Commission{})
	e.db.Where("1 = 1").Delete(&models.Payment{})
	if got := e.pending(t); !got.Equal(decimal.NewFromInt(230)) {
		t.Errorf("expected 230 pending after removal, got %s", got)
	}
}

func TestInstallmentsAndCommissions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	out, err := NewCreatePayment(e.repo, nil, false).Execute(ctx, e.actor, CreatePaymentInput{
		EncounterID:     e.enc.ID,
		PaymentMethodID: e.f.Method.ID,
		Amount:          decimal.NewFromInt(300),
		Installments:    2,
	})
	if err != nil {
		t.Fatal(err)
	}

	items, err := NewListInstallments(e.repo).Execute(ctx, e.actor, out.ID)
	if err != nil || len(items) != 2 {
		t.Fatalf("list installments: %v %d", err, len(items))
	}

	paid, err := NewPayInstallment(e.repo, nil).Execute(ctx, e.actor, items[1].ID)
	if err != nil {
		t.Fatalf("pay installment: %v", err)
	}
	if paid.Status != domain.InstallmentPaid || paid.PaidAt == nil {
		t.Errorf("unexpected installment %+v", paid)
	}
	if _, err := NewPayInstallment(e.repo, nil).Execute(ctx, e.actor, items[1].ID); !httperr.IsBusiness(err, "installment_already_paid") {
		t.Errorf("expected installment_already_paid, got %v", err)
	}

	other := session.Actor{BusinessID: e.actor.BusinessID + 1}
	if _, err := NewPayInstallment(e.repo, nil).Execute(ctx, other, items[0].ID); err == nil {
		t.Error("installment of another business must not be found")
	}

	report, err := NewListCommissions(e.repo).Execute(ctx, e.actor, e.f.Consultant.ID, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Items) != 1 || !report.Total.Equal(decimal.NewFromInt(45)) {
		t.Errorf("expected one commission of 45, got %+v", report)
	}

	got, err := NewGetPayment(e.repo).Execute(ctx, e.actor, out.ID)
	if err != nil || len(got.Schedule) != 2 {
		t.Errorf("get payment: %v", err)
	}

	list, err := NewListPayments(e.repo).Execute(ctx, e.actor, ListPaymentsInput{Type: "saida"})
	if err != nil || len(list) != 0 {
		t.Errorf("expected no outflows, got %d (%v)", len(list), err)
	}
	if _, err := NewListPayments(e.repo).Execute(ctx, e.actor, ListPaymentsInput{From: "2025-02-10", To: "2025-02-01"}); !httperr.IsBusiness(err, "invalid_period") {
		t.Errorf("expected invalid_period, got %v", err)
	}
}

func TestEncounterOperations(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	final := decimal.NewFromInt(120)
	notes := "Retorno em 30 dias"
	upd, err := NewUpdateEncounter(e.repo, nil).Execute(ctx, e.actor, e.enc.ID, UpdateEncounterInput{
		FinalValue: &final,
		Notes:      &notes,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !upd.AmountDue.Equal(final) || upd.Notes != notes {
		t.Errorf("unexpected encounter %+v", upd)
	}

	if err := e.pay(t, "120", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := NewUpdateEncounter(e.repo, nil).Execute(ctx, e.actor, e.enc.ID, UpdateEncounterInput{Notes: &notes}); !httperr.IsBusiness(err, "encounter_settled") {
		t.Errorf("expected encounter_settled, got %v", err)
	}

	e.f.Encounter(t, e.db, time.Now().Add(-48*time.Hour))
	e.db.Model(&models.Client{}).Where("id = ?", e.f.Client.ID).Update("ativo", false)

	history, err := NewClientHistory(e.repo).Execute(ctx, e.actor, e.f.Client.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.ClientName != e.f.Client.Name || history.Visits != 2 {
		t.Errorf("unexpected history %+v", history)
	}
	if !history.TotalSpent.Equal(decimal.NewFromInt(270)) {
		t.Errorf("expected total 270, got %s", history.TotalSpent)
	}
	if history.Encounters[0].ClientName != e.f.Client.Name {
		t.Error("inactive client name must still resolve")
	}
}

type fakePhotoStore struct {
	saved int
}

func (s *fakePhotoStore) SaveEncounterPhoto(_ context.Context, encounterID uint, _ io.Reader) (string, error) {
	s.saved++
	return "https://cdn.example/encounters/" + strconv.Itoa(int(encounterID)) + ".webp", nil
}

func TestAttachEncounterPhoto(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := NewAttachEncounterPhoto(e.repo, nil, nil).Execute(ctx, e.actor, e.enc.ID, strings.NewReader("img")); !httperr.IsBusiness(err, "photo_storage_disabled") {
		t.Errorf("expected photo_storage_disabled, got %v", err)
	}

	store := &fakePhotoStore{}
	uc := NewAttachEncounterPhoto(e.repo, store, nil)

	out, err := uc.Execute(ctx, e.actor, e.enc.ID, strings.NewReader("img"))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(out.PhotoURLs) != 1 {
		t.Errorf("expected one photo, got %v", out.PhotoURLs)
	}

	if err := e.pay(t, "150", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Execute(ctx, e.actor, e.enc.ID, strings.NewReader("img")); !httperr.IsBusiness(err, "encounter_settled") {
		t.Errorf("expected encounter_settled, got %v", err)
	}
	if store.saved != 1 {
		t.Errorf("settled encounter must not upload, saved %d", store.saved)
	}

	var stored models.Encounter
	e.db.First(&stored, e.enc.ID)
	if len(stored.PhotoURLs) != 1 {
		t.Errorf("settled encounter photos changed: %v", stored.PhotoURLs)
	}
}

type fakeGateway struct {
	req domain.PixRequest
	err error
}

func (g *fakeGateway) CreatePix(_ context.Context, req domain.PixRequest) (*domain.PixCharge, error) {
	g.req = req
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PixCharge{ID: "123", Status: "pending", QRCode: "000201", TicketURL: "https://pix.example/123"}, nil
}

func TestCreatePixCharge(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	out, err := NewCreatePayment(e.repo, nil, false).Execute(ctx, e.actor, CreatePaymentInput{
		EncounterID:     e.enc.ID,
		PaymentMethodID: e.f.Method.ID,
		Amount:          decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewCreatePixCharge(e.repo, nil, nil).Execute(ctx, e.actor, out.ID); !httperr.IsBusiness(err, "payment_gateway_disabled") {
		t.Errorf("expected payment_gateway_disabled, got %v", err)
	}

	failing := &fakeGateway{err: errors.New("boom")}
	if _, err := NewCreatePixCharge(e.repo, failing, nil).Execute(ctx, e.actor, out.ID); err == nil {
		t.Error("gateway failure must surface")
	}

	gw := &fakeGateway{}
	charge, err := NewCreatePixCharge(e.repo, gw, nil).Execute(ctx, e.actor, out.ID)
	if err != nil {
		t.Fatalf("pix: %v", err)
	}
	if charge.QRCode == "" || !gw.req.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("unexpected charge %+v / request %+v", charge, gw.req)
	}

	var stored models.Payment
	e.db.First(&stored, out.ID)
	if stored.GatewayID != "123" || stored.GatewayStatus != "pending" {
		t.Errorf("gateway data not stored: %+v", stored)
	}

	if _, err := NewCreatePixCharge(e.repo, gw, nil).Execute(ctx, e.actor, out.ID); !httperr.IsBusiness(err, "pix_already_issued") {
		t.Errorf("expected pix_already_issued, got %v", err)
	}
}
