package orders

import (
	"errors"
	"testing"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

func TestDecode(t *testing.T) {
	t.Run("reads legacy totals and coerces item fields", func(t *testing.T) {
		order, err := Decode(docstore.Document{ID: "o1", Data: map[string]any{
			"userId":       "u1",
			"customerName": "Siti",
			"status":       "completed",
			"createdAt":    "2024-06-15T08:00:00Z",
			"total":        "2500",
			"items": []any{
				map[string]any{"name": "Khimar", "quantity": "2", "price": float64(1000)},
				map[string]any{"name": "Pashmina", "quantity": float64(1), "price": "500abc"},
			},
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.UserID != "u1" || order.CustomerName != "Siti" || order.Status != domain.OrderStatusCompleted {
			t.Errorf("unexpected header fields: %+v", order)
		}
		if order.CreatedAt == nil {
			t.Fatal("expected createdAt to be parsed")
		}
		if order.Total != 2500 || order.TotalAmount != 0 || order.TotalPrice != 0 {
			t.Errorf("unexpected totals: %+v", order)
		}
		if len(order.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(order.Items))
		}
		if order.Items[0].Quantity != 2 || order.Items[1].Price != 500 {
			t.Errorf("unexpected items: %+v", order.Items)
		}
	})

	t.Run("missing fields decode to zero values", func(t *testing.T) {
		order, err := Decode(docstore.Document{ID: "o2", Data: map[string]any{}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != "o2" || order.CreatedAt != nil || order.Items != nil {
			t.Errorf("expected an empty order, got %+v", order)
		}
	})

	t.Run("items that are not a list are malformed", func(t *testing.T) {
		order, err := Decode(docstore.Document{ID: "o3", Data: map[string]any{
			"items":       "two khimar",
			"status":      "completed",
			"userId":      "u1",
			"totalAmount": float64(900),
		}})
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
		if !order.Malformed || order.Items != nil {
			t.Errorf("expected a flagged order without items, got %+v", order)
		}
		if order.ID != "o3" || order.UserID != "u1" || order.Status != domain.OrderStatusCompleted || order.TotalAmount != 900 {
			t.Errorf("expected the other fields to be decoded, got %+v", order)
		}
	})

	t.Run("an item that is not an object is malformed", func(t *testing.T) {
		order, err := Decode(docstore.Document{ID: "o4", Data: map[string]any{"items": []any{float64(3)}}})
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
		if !order.Malformed || order.Items != nil {
			t.Errorf("expected a flagged order without items, got %+v", order)
		}
	})
}
