package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/orders"
	"github.com/joao-fontenele/storefront-admin/internal/stats"
	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
	"github.com/joao-fontenele/storefront-admin/internal/view"
)

type ProductCounter interface {
	Count(ctx context.Context) (int, error)
}

type CustomerCounter interface {
	CountCustomers(ctx context.Context) (int, error)
}

type OrderSource interface {
	List(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error)
	Recent(ctx context.Context, n int) ([]domain.Order, error)
}

type Summary struct {
	TotalProducts    int                        `json:"totalProducts"`
	TotalOrders      int                        `json:"totalOrders"`
	TotalRevenue     float64                    `json:"totalRevenue"`
	TotalRevenueText string                     `json:"totalRevenueText"`
	TotalCustomers   int                        `json:"totalCustomers"`
	StatusCounts     map[domain.OrderStatus]int `json:"statusCounts"`
	RecentOrders     []orders.Row               `json:"recentOrders"`
	GeneratedAt      time.Time                  `json:"generatedAt"`
}

type Service struct {
	products    ProductCounter
	orders      OrderSource
	customers   CustomerCounter
	cache       cache.Cache
	ttl         time.Duration
	recentLimit int
	loc         *time.Location
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(products ProductCounter, orderSource OrderSource, customers CustomerCounter, c cache.Cache, ttl time.Duration, recentLimit int, loc *time.Location, logger *slog.Logger) *Service {
	return &Service{
		products:    products,
		orders:      orderSource,
		customers:   customers,
		cache:       c,
		ttl:         ttl,
		recentLimit: recentLimit,
		loc:         loc,
		logger:      logger,
		now:         time.Now,
	}
}

// Summary returns the cached dashboard figures, computing them on a miss.
// A broken cache only costs a recomputation.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var cached Summary
	hit, err := cache.GetJSON(ctx, s.cache, cache.KeyDashboard, &cached)
	if err != nil {
		s.logger.Warn("failed to read dashboard cache", "error", err)
	}
	if hit {
		return &cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the figures and stores them in the cache.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, cache.KeyDashboard, summary, s.ttl); err != nil {
		s.logger.Warn("failed to cache dashboard summary", "error", err)
	}
	return summary, nil
}

func (s *Service) compute(ctx context.Context) (*Summary, error) {
	var (
		productCount  int
		customerCount int
		all           []domain.Order
		recent        []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.products.Count(gctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		productCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.customers.CountCustomers(gctx)
		if err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		customerCount = n
		return nil
	})
	g.Go(func() error {
		list, err := s.orders.List(gctx)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		all = list
		return nil
	})
	g.Go(func() error {
		list, err := s.orders.Recent(gctx, s.recentLimit)
		if err != nil {
			return fmt.Errorf("recent orders: %w", err)
		}
		recent = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := stats.Aggregate(all)
	for _, id := range agg.Skipped {
		s.logger.Warn("completed order left out of revenue", "order_id", id)
		telemetry.RecordSkipped(ctx, orders.Collection, "unusable_total")
	}

	rows := make([]orders.Row, 0, len(recent))
	for _, o := range recent {
		rows = append(rows, orders.NewRow(o, s.loc))
	}

	return &Summary{
		TotalProducts:    productCount,
		TotalOrders:      agg.TotalOrders,
		TotalRevenue:     agg.TotalRevenue,
		TotalRevenueText: view.FormatIDR(agg.TotalRevenue),
		TotalCustomers:   customerCount,
		StatusCounts:     stats.StatusCounts(all),
		RecentOrders:     rows,
		GeneratedAt:      s.now().UTC(),
	}, nil
}
