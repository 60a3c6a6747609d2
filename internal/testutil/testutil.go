// Package testutil opens throwaway in-memory databases with the production
// schema and seeds the rows most tests need.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/consultapp/internal/db"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

// NewDB returns a migrated sqlite database private to t. Foreign keys are
// not enforced, which lets tests remove rows out from under a use case.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

type Fixture struct {
	Business   models.Business
	User       models.User
	Client     models.Client
	Consultant models.Consultant
	Service    models.Service
	Method     models.PaymentMethod
}

// Seed creates one business with an owner, a client, a consultant earning
// 15% and a 60 minute service priced at 150.00.
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{}
	f.Business = models.Business{
		Name:     "Clínica Teste",
		Slug:     "clinica-" + uuid.NewString()[:8],
		Timezone: "America/Sao_Paulo",
	}
	mustCreate(t, db, &f.Business)

	f.User = models.User{
		BusinessID:   f.Business.ID,
		Name:         "Dona",
		Email:        uuid.NewString() + "@teste.com",
		PasswordHash: "x",
		Role:         "owner",
	}
	mustCreate(t, db, &f.User)

	f.Client = models.Client{BusinessID: f.Business.ID, Name: "Ana Souza", Phone: "11999990000", Active: true}
	mustCreate(t, db, &f.Client)

	f.Consultant = models.Consultant{
		BusinessID:        f.Business.ID,
		Name:              "Carlos Lima",
		CommissionPercent: decimal.NewFromInt(15),
		Active:            true,
	}
	mustCreate(t, db, &f.Consultant)

	f.Service = models.Service{
		BusinessID:  f.Business.ID,
		Name:        "Consulta",
		Price:       decimal.NewFromInt(150),
		DurationMin: 60,
		Active:      true,
	}
	mustCreate(t, db, &f.Service)

	f.Method = models.PaymentMethod{BusinessID: f.Business.ID, Name: "PIX", Order: 1, Active: true}
	mustCreate(t, db, &f.Method)

	return f
}

// Appointment inserts an appointment row directly, bypassing the use case.
func (f *Fixture) Appointment(t *testing.T, db *gorm.DB, start time.Time, status string) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		BusinessID:       f.Business.ID,
		ClientID:         f.Client.ID,
		ConsultantID:     f.Consultant.ID,
		ServiceID:        f.Service.ID,
		StartTime:        start.UTC(),
		EndTime:          start.Add(time.Duration(f.Service.DurationMin) * time.Minute).UTC(),
		Status:           status,
		ServiceValue:     f.Service.Price,
		CommissionAmount: decimal.RequireFromString("22.50"),
	}
	mustCreate(t, db, ap)
	return ap
}

// Encounter inserts a fulfilled appointment together with its encounter.
func (f *Fixture) Encounter(t *testing.T, db *gorm.DB, servedAt time.Time) *models.Encounter {
	t.Helper()

	ap := f.Appointment(t, db, servedAt, "fulfilled")
	scheduled := ap.StartTime
	enc := &models.Encounter{
		BusinessID:       f.Business.ID,
		AppointmentID:    ap.ID,
		ClientID:         f.Client.ID,
		ConsultantID:     f.Consultant.ID,
		ServiceID:        f.Service.ID,
		ScheduledAt:      &scheduled,
		ServedAt:         servedAt.UTC(),
		ServiceValue:     f.Service.Price,
		CommissionAmount: ap.CommissionAmount,
	}
	mustCreate(t, db, enc)
	return enc
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Omit(clause.Associations).Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}
