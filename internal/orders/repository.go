package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
)

const Collection = "orders"

// ErrNotCompletable is returned when an order is already completed or
// cancelled.
var ErrNotCompletable = errors.New("order cannot be completed")

type OrderRepository struct {
	store  docstore.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewOrderRepository(store docstore.Store, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{store: store, logger: logger, now: time.Now}
}

// List returns orders newest first by createdAt instant. With statuses it
// keeps only orders in one of them. Orders with unreadable items are logged
// and kept with Malformed set, so they still count.
func (r *OrderRepository) List(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	q := docstore.Collection(Collection).NewestFirst("createdAt")
	if len(statuses) > 0 {
		values := make([]any, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		q = q.WhereIn("status", values...)
	}
	return r.find(ctx, q)
}

func (r *OrderRepository) Recent(ctx context.Context, n int) ([]domain.Order, error) {
	return r.find(ctx, docstore.Collection(Collection).NewestFirst("createdAt").Limit(n))
}

func (r *OrderRepository) find(ctx context.Context, q docstore.Query) ([]domain.Order, error) {
	docs, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := Decode(doc)
		if err != nil {
			if !errors.Is(err, ErrMalformed) {
				return nil, err
			}
			r.logger.Warn("order items are unreadable", "order_id", doc.ID, "error", err)
			telemetry.RecordSkipped(ctx, Collection, "malformed_items")
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	order, err := Decode(*doc)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkCompleted moves an open order to completed and returns it. It returns
// nil when the order does not exist. The status is rechecked by the store in
// the write itself, so an order cancelled or completed meanwhile is refused.
func (r *OrderRepository) MarkCompleted(ctx context.Context, id string) (*domain.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}
	if order.Status.Final() {
		return nil, ErrNotCompletable
	}

	completedAt := r.now().UTC()
	ok, err := r.store.Update(ctx, Collection, id, map[string]any{
		"status":      string(domain.OrderStatusCompleted),
		"completedAt": completedAt.Format(time.RFC3339Nano),
	}, docstore.NotIn("status", string(domain.OrderStatusCompleted), string(domain.OrderStatusCancelled)))
	if err != nil {
		return nil, err
	}
	if !ok {
		doc, err := r.store.Get(ctx, Collection, id)
		if err != nil || doc == nil {
			return nil, err
		}
		return nil, ErrNotCompletable
	}

	order.Status = domain.OrderStatusCompleted
	return order, nil
}
