package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/dashboard"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/reports"
)

type SummaryRefresher interface {
	Refresh(ctx context.Context) (*dashboard.Summary, error)
}

type SalesRefresher interface {
	Refresh(ctx context.Context) (*reports.SalesReport, error)
}

// CacheRefresher reacts to order.completed events by dropping the cached
// dashboard figures and recomputing them.
type CacheRefresher struct {
	cache     cache.Cache
	dashboard SummaryRefresher
	sales     SalesRefresher
	logger    *slog.Logger
}

func NewCacheRefresher(c cache.Cache, dashboard SummaryRefresher, sales SalesRefresher, logger *slog.Logger) *CacheRefresher {
	return &CacheRefresher{
		cache:     c,
		dashboard: dashboard,
		sales:     sales,
		logger:    logger,
	}
}

func (h *CacheRefresher) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderCompletedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order completed event: %w", err)
	}

	h.logger.Info("processing order completed event", "order_id", event.OrderID, "event_id", event.EventID)

	if err := h.cache.Delete(ctx, cache.KeyDashboard, cache.KeySalesReport); err != nil {
		return fmt.Errorf("invalidate cached figures: %w", err)
	}

	var errs []error
	if _, err := h.sales.Refresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("refresh sales report: %w", err))
	}
	if _, err := h.dashboard.Refresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("refresh dashboard summary: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	h.logger.Info("cached figures refreshed", "order_id", event.OrderID)
	return nil
}
