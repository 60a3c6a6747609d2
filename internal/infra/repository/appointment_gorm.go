package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessByID(
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
// Registry
// --------------------------------------------------

func (r *AppointmentGormRepository) GetActiveClient(
	ctx context.Context,
	businessID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ? AND ativo = ?", clientID, businessID, true).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetActiveConsultant(
	ctx context.Context,
	businessID uint,
	consultantID uint,
) (*models.Consultant, error) {

	var consultant models.Consultant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ? AND ativo = ?", consultantID, businessID, true).
		First(&consultant).Error; err != nil {
		return nil, err
	}
	return &consultant, nil
}

func (r *AppointmentGormRepository) GetActiveService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ? AND ativo = ?", serviceID, businessID, true).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetActivePaymentMethod(
	ctx context.Context,
	businessID uint,
	methodID uint,
) (*models.PaymentMethod, error) {
	return activePaymentMethod(r.db.WithContext(ctx), businessID, methodID)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	consultantID uint,
	start time.Time,
	end time.Time,
	exceptID uint,
) error {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"consultor_id = ? AND status IN ? AND data_agendamento < ? AND data_fim > ?",
			consultantID,
			domain.ActiveStatuses(),
			end.UTC(),
			start.UTC(),
		)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		Preload("Service").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Model(ap).
		Omit(clause.Associations).
		Select("status", "confirmed_at", "cancelled_at", "fulfilled_at", "updated_by", "updated_at").
		Updates(ap).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	businessID uint,
	consultantID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		Preload("Service").
		Where(
			"business_id = ? AND data_agendamento >= ? AND data_agendamento < ?",
			businessID,
			start.UTC(),
			end.UTC(),
		)
	if consultantID != 0 {
		q = q.Where("consultor_id = ?", consultantID)
	}

	var apps []models.Appointment
	if err := q.Order("data_agendamento ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Encounter
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateEncounter(
	ctx context.Context,
	enc *models.Encounter,
) error {
	enc.ServedAt = enc.ServedAt.UTC()
	if enc.ScheduledAt != nil {
		at := enc.ScheduledAt.UTC()
		enc.ScheduledAt = &at
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(enc).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	consultantID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("consultant_id = ? AND weekday = ?", consultantID, weekday).
		First(&wh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) HasWorkingHours(
	ctx context.Context,
	consultantID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WorkingHours{}).
		Where("consultant_id = ?", consultantID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) ListBusyForDay(
	ctx context.Context,
	consultantID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "data_agendamento", "data_fim").
		Where(
			"consultor_id = ? AND status IN ? AND data_agendamento >= ? AND data_agendamento < ?",
			consultantID, domain.ActiveStatuses(), start.UTC(), end.UTC(),
		).
		Order("data_agendamento ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func activePaymentMethod(db *gorm.DB, businessID, methodID uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := db.
		Where("id = ? AND business_id = ? AND ativo = ?", methodID, businessID, true).
		First(&method).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
