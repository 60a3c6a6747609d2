package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

type SettlementGormRepository struct {
	db *gorm.DB
}

func NewSettlementGormRepository(db *gorm.DB) *SettlementGormRepository {
	return &SettlementGormRepository{db: db}
}

func (r *SettlementGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx settlement.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SettlementGormRepository{db: tx})
	})
}

func (r *SettlementGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// --------------------------------------------------
// Encounter
// --------------------------------------------------

func (r *SettlementGormRepository) GetEncounter(
	ctx context.Context,
	businessID uint,
	encounterID uint,
) (*models.Encounter, error) {

	var enc models.Encounter
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		Preload("Service").
		Preload("PaymentMethod").
		Where("id = ? AND business_id = ?", encounterID, businessID).
		First(&enc).Error; err != nil {
		return nil, err
	}
	return &enc, nil
}

func (r *SettlementGormRepository) UpdateEncounter(
	ctx context.Context,
	enc *models.Encounter,
) error {
	return r.db.WithContext(ctx).
		Model(enc).
		Omit(clause.Associations).
		Select("valor_final", "forma_pagamento", "procedimentos_realizados", "observacoes_atendimento", "fotos_urls").
		Updates(enc).Error
}

func (r *SettlementGormRepository) ListClientEncounters(
	ctx context.Context,
	businessID uint,
	clientID uint,
) ([]models.Encounter, error) {

	var items []models.Encounter
	if err := r.db.WithContext(ctx).
		Preload("Consultant").
		Preload("Service").
		Preload("PaymentMethod").
		Where("business_id = ? AND cliente_id = ?", businessID, clientID).
		Order("data_atendimento DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SettlementGormRepository) CountEncounterPayments(
	ctx context.Context,
	encounterID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("atendimento_id = ?", encounterID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SettlementGormRepository) GetClient(
	ctx context.Context,
	businessID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", clientID, businessID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetConsultant ignores the active flag: commissions follow whoever served
// the encounter.
func (r *SettlementGormRepository) GetConsultant(
	ctx context.Context,
	businessID uint,
	consultantID uint,
) (*models.Consultant, error) {

	var consultant models.Consultant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", consultantID, businessID).
		First(&consultant).Error; err != nil {
		return nil, err
	}
	return &consultant, nil
}

func (r *SettlementGormRepository) GetActivePaymentMethod(
	ctx context.Context,
	businessID uint,
	methodID uint,
) (*models.PaymentMethod, error) {
	return activePaymentMethod(r.db.WithContext(ctx), businessID, methodID)
}

func (r *SettlementGormRepository) ListUnpaidEncounters(
	ctx context.Context,
	businessID uint,
	clientID uint,
) ([]models.Encounter, error) {

	var items []models.Encounter
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Consultant").
		Where("historico.business_id = ? AND historico.cliente_id = ?", businessID, clientID).
		Where("NOT EXISTS (SELECT 1 FROM pagamentos p WHERE p.atendimento_id = historico.id)").
		Order("historico.data_atendimento DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *SettlementGormRepository) CountPayments(
	ctx context.Context,
	encounterID uint,
	typ settlement.TransactionType,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("atendimento_id = ? AND tipo_transacao = ?", encounterID, string(typ)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SettlementGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	p.PaidAt = p.PaidAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *SettlementGormRepository) GetPayment(
	ctx context.Context,
	businessID uint,
	paymentID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("id = ? AND business_id = ?", paymentID, businessID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SettlementGormRepository) UpdatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	p.PaidAt = p.PaidAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *SettlementGormRepository) ListPayments(
	ctx context.Context,
	businessID uint,
	f settlement.PaymentFilter,
) ([]models.Payment, error) {

	q := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("business_id = ?", businessID)

	if !f.From.IsZero() {
		q = q.Where("data_pagamento >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("data_pagamento < ?", f.To.UTC())
	}
	if f.Type != "" {
		q = q.Where("tipo_transacao = ?", string(f.Type))
	}

	var items []models.Payment
	if err := q.Order("data_pagamento DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --------------------------------------------------
// Installments
// --------------------------------------------------

func (r *SettlementGormRepository) CreateInstallments(
	ctx context.Context,
	items []models.Installment,
) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DueDate = items[i].DueDate.UTC()
		if items[i].PaidAt != nil {
			paid := items[i].PaidAt.UTC()
			items[i].PaidAt = &paid
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *SettlementGormRepository) ListInstallments(
	ctx context.Context,
	paymentID uint,
) ([]models.Installment, error) {

	var items []models.Installment
	if err := r.db.WithContext(ctx).
		Where("pagamento_id = ?", paymentID).
		Order("numero_parcela ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SettlementGormRepository) GetInstallment(
	ctx context.Context,
	businessID uint,
	installmentID uint,
) (*models.Installment, error) {

	owned := r.db.Model(&models.Payment{}).
		Select("id").
		Where("business_id = ?", businessID)

	var inst models.Installment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND pagamento_id IN (?)", installmentID, owned).
		First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *SettlementGormRepository) UpdateInstallment(
	ctx context.Context,
	inst *models.Installment,
) error {
	inst.DueDate = inst.DueDate.UTC()
	if inst.PaidAt != nil {
		paid := inst.PaidAt.UTC()
		inst.PaidAt = &paid
	}
	return r.db.WithContext(ctx).Save(inst).Error
}

// --------------------------------------------------
// Commission
// --------------------------------------------------

func (r *SettlementGormRepository) CreateCommission(
	ctx context.Context,
	c *models.Commission,
) error {
	c.OperatedAt = c.OperatedAt.UTC()
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *SettlementGormRepository) ListCommissions(
	ctx context.Context,
	businessID uint,
	consultantID uint,
	from time.Time,
	to time.Time,
) ([]models.Commission, error) {

	q := r.db.WithContext(ctx).
		Where("business_id = ? AND consultor_id = ?", businessID, consultantID)

	if !from.IsZero() {
		q = q.Where("data_operacao >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("data_operacao < ?", to.UTC())
	}

	var items []models.Commission
	if err := q.Order("data_operacao DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Compile-time check
var _ settlement.Repository = (*SettlementGormRepository)(nil)
