package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/dashboard"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

// stored spellings of a cancelled appointment, legacy ones included
var cancelledStatuses = []string{"cancelled", "cancelado", "canceled"}

type DashboardGormRepository struct {
	db *gorm.DB
}

func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

func (r *DashboardGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *DashboardGormRepository) CountAppointments(
	ctx context.Context,
	businessID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"business_id = ? AND data_agendamento >= ? AND data_agendamento < ? AND status NOT IN ?",
			businessID, start.UTC(), end.UTC(), cancelledStatuses,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DashboardGormRepository) CountActiveClients(
	ctx context.Context,
	businessID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("business_id = ? AND ativo = ?", businessID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DashboardGormRepository) SumInflows(
	ctx context.Context,
	businessID uint,
	from time.Time,
	to time.Time,
) (decimal.Decimal, error) {

	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(valor), 0)").
		Where(
			"business_id = ? AND tipo_transacao = ? AND data_pagamento >= ? AND data_pagamento < ?",
			businessID, "entrada", from.UTC(), to.UTC(),
		).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *DashboardGormRepository) ListAppointments(
	ctx context.Context,
	businessID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		Preload("Service").
		Where(
			"business_id = ? AND data_agendamento >= ? AND data_agendamento < ? AND status NOT IN ?",
			businessID, start.UTC(), end.UTC(), cancelledStatuses,
		).
		Order("data_agendamento ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*DashboardGormRepository)(nil)
