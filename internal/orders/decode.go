package orders

import (
	"errors"
	"fmt"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

var ErrMalformed = errors.New("malformed order document")

// Decode reads an order document. Missing or mistyped scalar fields fall back
// to their zero value. An items field that is not a list of objects yields
// ErrMalformed together with the order, decoded without items and flagged
// Malformed, so callers that only count orders can keep it.
func Decode(doc docstore.Document) (domain.Order, error) {
	data := doc.Data
	order := domain.Order{
		ID:           doc.ID,
		UserID:       docstore.String(data["userId"]),
		CustomerName: docstore.String(data["customerName"]),
		Status:       domain.OrderStatus(docstore.String(data["status"])),
		CreatedAt:    docstore.Time(data["createdAt"]),
		TotalAmount:  docstore.Float(data["totalAmount"]),
		Total:        docstore.Float(data["total"]),
		TotalPrice:   docstore.Float(data["totalPrice"]),
	}

	switch raw := data["items"].(type) {
	case nil:
	case []any:
		items := make([]domain.OrderItem, 0, len(raw))
		for i, v := range raw {
			item, ok := v.(map[string]any)
			if !ok {
				order.Malformed = true
				return order, fmt.Errorf("%w: %s items[%d] is %T", ErrMalformed, doc.ID, i, v)
			}
			items = append(items, domain.OrderItem{
				Name:     docstore.String(item["name"]),
				Quantity: docstore.Int(item["quantity"]),
				Price:    docstore.Float(item["price"]),
			})
		}
		order.Items = items
	default:
		order.Malformed = true
		return order, fmt.Errorf("%w: %s items is %T", ErrMalformed, doc.ID, raw)
	}

	return order, nil
}
