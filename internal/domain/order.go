package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Final reports whether no further status change is expected.
func (s OrderStatus) Final() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order mirrors an order document. TotalAmount, Total and TotalPrice hold the
// same concept under three historical field names; a zero value means the
// field was absent.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId,omitempty"`
	CustomerName string      `json:"customerName,omitempty"`
	Status       OrderStatus `json:"status"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
	TotalAmount  float64     `json:"totalAmount,omitempty"`
	Total        float64     `json:"total,omitempty"`
	TotalPrice   float64     `json:"totalPrice,omitempty"`
	// Malformed marks an order whose items could not be read. Items is nil
	// and only a stored total can price it.
	Malformed    bool        `json:"malformed,omitempty"`
}
