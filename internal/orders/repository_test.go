package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

func newTestStore(t *testing.T) *docstore.MemoryStore {
	t.Helper()
	store := docstore.NewMemoryStore()
	docs := map[string]map[string]any{
		"order-aaaa-0001": {"status": "completed", "userId": "u1", "customerName": "Siti", "createdAt": "2024-06-15T08:00:00Z", "totalAmount": float64(1500)},
		"order-aaaa-0002": {"status": "pending", "userId": "u2", "createdAt": "2024-06-16T08:00:00Z", "items": []any{map[string]any{"name": "Khimar", "quantity": float64(2), "price": float64(1000)}}},
		"order-aaaa-0003": {"status": "cancelled", "createdAt": "2024-06-14T08:00:00Z", "total": float64(700)},
		"order-aaaa-0004": {"status": "pending", "createdAt": "2024-06-13T08:00:00Z", "items": "broken"},
	}
	for id, data := range docs {
		if err := store.Put(context.Background(), Collection, id, data); err != nil {
			t.Fatalf("failed to seed %s: %v", id, err)
		}
	}
	return store
}

func newTestRepository(t *testing.T) *OrderRepository {
	return NewOrderRepository(newTestStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOrderRepository_List(t *testing.T) {
	repo := newTestRepository(t)

	t.Run("newest first, unreadable items kept and flagged", func(t *testing.T) {
		orders, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"order-aaaa-0002", "order-aaaa-0001", "order-aaaa-0003", "order-aaaa-0004"}
		if len(orders) != len(want) {
			t.Fatalf("expected %d orders, got %d", len(want), len(orders))
		}
		for i, id := range want {
			if orders[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, orders[i].ID)
			}
		}
		for _, o := range orders {
			if o.Malformed != (o.ID == "order-aaaa-0004") {
				t.Errorf("%s: unexpected Malformed=%v", o.ID, o.Malformed)
			}
		}
	})

	t.Run("orders by instant across timestamp formats", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		ctx := context.Background()
		_ = store.Put(ctx, Collection, "a-old", map[string]any{"status": "pending", "createdAt": map[string]any{"seconds": float64(1718409600)}})
		_ = store.Put(ctx, Collection, "z-new", map[string]any{"status": "pending", "createdAt": map[string]any{"seconds": float64(1718438400)}})
		_ = store.Put(ctx, Collection, "x-early", map[string]any{"status": "pending", "createdAt": "2024-06-15T10:00:00+07:00"})
		_ = store.Put(ctx, Collection, "y-late", map[string]any{"status": "pending", "createdAt": "2024-06-15T05:00:00Z"})

		repo := NewOrderRepository(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
		recent, err := repo.Recent(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recent) != 2 || recent[0].ID != "z-new" || recent[1].ID != "y-late" {
			t.Errorf("expected [z-new y-late], got %+v", recent)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		orders, err := repo.List(context.Background(), domain.OrderStatusCompleted, domain.OrderStatusCancelled)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 2 {
			t.Errorf("expected 2 orders, got %d", len(orders))
		}
	})

	t.Run("recent is limited", func(t *testing.T) {
		orders, err := repo.Recent(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != "order-aaaa-0002" {
			t.Errorf("expected the newest order only, got %+v", orders)
		}
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	repo := newTestRepository(t)

	order, err := repo.GetByID(context.Background(), "missing")
	if err != nil || order != nil {
		t.Fatalf("expected nil, nil for a missing order, got %v, %v", order, err)
	}

	_, err = repo.GetByID(context.Background(), "order-aaaa-0004")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestOrderRepository_MarkCompleted(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	order, err := repo.MarkCompleted(ctx, "order-aaaa-0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != domain.OrderStatusCompleted {
		t.Errorf("expected completed, got %s", order.Status)
	}

	stored, err := repo.GetByID(ctx, "order-aaaa-0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != domain.OrderStatusCompleted {
		t.Errorf("expected stored status completed, got %s", stored.Status)
	}
	if len(stored.Items) != 1 {
		t.Errorf("expected items to be kept, got %+v", stored.Items)
	}

	for _, id := range []string{"order-aaaa-0002", "order-aaaa-0003"} {
		if _, err := repo.MarkCompleted(ctx, id); !errors.Is(err, ErrNotCompletable) {
			t.Errorf("%s: expected ErrNotCompletable, got %v", id, err)
		}
	}

	order, err = repo.MarkCompleted(ctx, "missing")
	if err != nil || order != nil {
		t.Errorf("expected nil, nil for a missing order, got %v, %v", order, err)
	}
}

// cancelAfterRead cancels an order right after it has been read, like a
// second admin acting between the read and the write.
type cancelAfterRead struct {
	*docstore.MemoryStore
}

func (s cancelAfterRead) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	doc, err := s.MemoryStore.Get(ctx, collection, id)
	if err == nil && doc != nil {
		_, err = s.MemoryStore.Update(ctx, collection, id, map[string]any{"status": string(domain.OrderStatusCancelled)})
	}
	return doc, err
}

func TestOrderRepository_MarkCompleted_ConcurrentCancel(t *testing.T) {
	ctx := context.Background()
	store := cancelAfterRead{MemoryStore: newTestStore(t)}
	repo := NewOrderRepository(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	order, err := repo.MarkCompleted(ctx, "order-aaaa-0002")
	if !errors.Is(err, ErrNotCompletable) {
		t.Fatalf("expected ErrNotCompletable, got %v, %+v", err, order)
	}

	doc, err := store.MemoryStore.Get(ctx, Collection, "order-aaaa-0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Data["status"] != string(domain.OrderStatusCancelled) {
		t.Errorf("expected the cancellation to stand, got %v", doc.Data["status"])
	}
}
