package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

type Repository interface {
	GetBusinessByID(ctx context.Context, id uint) (*models.Business, error)

	// CountAppointments counts appointments starting in [start, end) whose
	// status is not cancelled.
	CountAppointments(ctx context.Context, businessID uint, start, end time.Time) (int64, error)
	CountActiveClients(ctx context.Context, businessID uint) (int64, error)

	// SumInflows totals inflow payments paid in [from, to).
	SumInflows(ctx context.Context, businessID uint, from, to time.Time) (decimal.Decimal, error)

	// ListAppointments uses the same window and status filter as
	// CountAppointments.
	ListAppointments(ctx context.Context, businessID uint, start, end time.Time) ([]models.Appointment, error)
}
