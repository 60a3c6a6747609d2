package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

type Repository interface {
	// -------- Unit of work --------
	// WithinTx runs fn against a repository bound to one transaction; any
	// error returned by fn rolls every write back.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	// -------- Business --------
	GetBusinessByID(ctx context.Context, id uint) (*models.Business, error)

	// -------- Registry (active rows only) --------
	GetActiveClient(ctx context.Context, businessID, clientID uint) (*models.Client, error)
	GetActiveConsultant(ctx context.Context, businessID, consultantID uint) (*models.Consultant, error)
	GetActiveService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)
	GetActivePaymentMethod(ctx context.Context, businessID, methodID uint) (*models.PaymentMethod, error)

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	// AssertNoTimeConflict fails with time_conflict when the consultant has
	// an active appointment overlapping [start, end), ignoring exceptID.
	AssertNoTimeConflict(
		ctx context.Context,
		consultantID uint,
		start time.Time,
		end time.Time,
		exceptID uint,
	) error

	GetAppointment(ctx context.Context, businessID, appointmentID uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	// UpdateStatus writes only the status columns, leaving notes and the
	// slot as they are in the database.
	UpdateStatus(ctx context.Context, ap *models.Appointment) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		businessID uint,
		consultantID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Encounter --------
	CreateEncounter(ctx context.Context, enc *models.Encounter) error

	// -------- Availability --------
	// GetWorkingHours returns nil, nil when the consultant has no schedule
	// configured for weekday.
	GetWorkingHours(ctx context.Context, consultantID uint, weekday int) (*models.WorkingHours, error)
	HasWorkingHours(ctx context.Context, consultantID uint) (bool, error)

	ListBusyForDay(
		ctx context.Context,
		consultantID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
