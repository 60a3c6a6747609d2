package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/dashboard"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type GetDashboard struct {
	repo  domain.Repository
	cache cache.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewGetDashboard accepts a nil store; metrics are then read from the
// database on every call.
func NewGetDashboard(repo domain.Repository, store cache.Store, ttl time.Duration) *GetDashboard {
	return &GetDashboard{
		repo:  repo,
		cache: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (uc *GetDashboard) Execute(
	ctx context.Context,
	actor session.Actor,
) (*dto.DashboardDTO, error) {

	key := cacheKey(actor.BusinessID)

	if cached, ok := uc.fromCache(ctx, key); ok {
		return cached, nil
	}

	out, err := uc.compute(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && uc.ttl > 0 {
		if b, err := json.Marshal(out); err == nil {
			if err := uc.cache.Set(ctx, key, b, uc.ttl); err != nil {
				log.Printf("dashboard cache set: %v", err)
			}
		}
	}

	return out, nil
}

// Invalidate drops the cached metrics of a business. Safe on a nil use
// case or store.
func (uc *GetDashboard) Invalidate(ctx context.Context, businessID uint) {
	if uc == nil || uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, cacheKey(businessID)); err != nil {
		log.Printf("dashboard cache delete: %v", err)
	}
}

func cacheKey(businessID uint) string {
	return fmt.Sprintf("dashboard:%d", businessID)
}

func (uc *GetDashboard) fromCache(ctx context.Context, key string) (*dto.DashboardDTO, bool) {
	if uc.cache == nil {
		return nil, false
	}

	b, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("dashboard cache get: %v", err)
		}
		return nil, false
	}

	var out dto.DashboardDTO
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (uc *GetDashboard) compute(ctx context.Context, businessID uint) (*dto.DashboardDTO, error) {
	business, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := uc.now().In(timezone.Location(business.Timezone))
	dayStart := timezone.StartOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	todayCount, err := uc.repo.CountAppointments(ctx, businessID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	clients, err := uc.repo.CountActiveClients(ctx, businessID)
	if err != nil {
		return nil, err
	}

	revenue, err := uc.repo.SumInflows(ctx, businessID, timezone.StartOfMonth(now), now)
	if err != nil {
		return nil, err
	}

	today, err := uc.repo.ListAppointments(ctx, businessID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{
		TodayAppointments:   todayCount,
		ActiveClients:       clients,
		MonthlyRevenue:      revenue,
		MonthlyRevenueLabel: money.FormatBRL(revenue),
		Today:               make([]dto.AppointmentListDTO, 0, len(today)),
	}
	for _, ap := range today {
		out.Today = append(out.Today, dto.NewAppointmentListDTO(ap, business.Timezone))
	}

	return out, nil
}
