package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/stats"
	"github.com/joao-fontenele/storefront-admin/internal/view"
)

type OrderLister interface {
	List(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error)
}

// SalesReport is the sales of completed orders over four overlapping
// windows, each ending now.
type SalesReport struct {
	stats.Sales
	TodayText   string    `json:"todayText"`
	WeekText    string    `json:"weekText"`
	MonthText   string    `json:"monthText"`
	YearText    string    `json:"yearText"`
	Timezone    string    `json:"timezone"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Service struct {
	orders OrderLister
	cache  cache.Cache
	ttl    time.Duration
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

func NewService(orders OrderLister, c cache.Cache, ttl time.Duration, loc *time.Location, logger *slog.Logger) *Service {
	return &Service{
		orders: orders,
		cache:  c,
		ttl:    ttl,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Sales(ctx context.Context) (*SalesReport, error) {
	var cached SalesReport
	hit, err := cache.GetJSON(ctx, s.cache, cache.KeySalesReport, &cached)
	if err != nil {
		s.logger.Warn("failed to read sales report cache", "error", err)
	}
	if hit && s.sameDay(cached.GeneratedAt) {
		return &cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the report and stores it in the cache.
func (s *Service) Refresh(ctx context.Context) (*SalesReport, error) {
	completed, err := s.orders.List(ctx, domain.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	sales := stats.BucketSales(completed, now)
	report := &SalesReport{
		Sales:       sales,
		TodayText:   view.FormatIDR(sales.Today),
		WeekText:    view.FormatIDR(sales.Week),
		MonthText:   view.FormatIDR(sales.Month),
		YearText:    view.FormatIDR(sales.Year),
		Timezone:    s.loc.String(),
		GeneratedAt: now,
	}

	if err := cache.SetJSON(ctx, s.cache, cache.KeySalesReport, report, s.ttl); err != nil {
		s.logger.Warn("failed to cache sales report", "error", err)
	}

	s.logger.Info("sales report computed", "orders", len(completed), "today", sales.Today, "year", sales.Year)
	return report, nil
}

// sameDay rejects snapshots taken before the current local midnight, whose
// today bucket would be stale.
func (s *Service) sameDay(generated time.Time) bool {
	a := generated.In(s.loc)
	b := s.now().In(s.loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
