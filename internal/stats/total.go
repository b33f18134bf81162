// Package stats derives the dashboard figures from already fetched order
// records. Every function is pure: no I/O, no shared state, safe to call
// concurrently.
package stats

import (
	"math"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

// TotalField names one of the legacy fields an order total may be stored in.
type TotalField string

const (
	FieldTotalAmount TotalField = "totalAmount"
	FieldTotal       TotalField = "total"
	FieldTotalPrice  TotalField = "totalPrice"
)

// LegacyTotalPolicy is the order in which stored totals are consulted. Older
// documents carry totalPrice or total; current ones carry totalAmount.
var LegacyTotalPolicy = []TotalField{FieldTotalAmount, FieldTotal, FieldTotalPrice}

func fieldValue(o domain.Order, f TotalField) float64 {
	switch f {
	case FieldTotalAmount:
		return o.TotalAmount
	case FieldTotal:
		return o.Total
	case FieldTotalPrice:
		return o.TotalPrice
	default:
		return 0
	}
}

// ResolveLegacyTotal returns the first stored total under LegacyTotalPolicy
// that is present. A stored 0 (or NaN) counts as absent, so a legitimately
// free order falls through to the next field.
func ResolveLegacyTotal(o domain.Order) float64 {
	for _, f := range LegacyTotalPolicy {
		v := fieldValue(o, f)
		if v != 0 && !math.IsNaN(v) {
			return v
		}
	}
	return 0
}

// LineTotal is quantity × price for a single item.
func LineTotal(item domain.OrderItem) float64 {
	return float64(item.Quantity) * item.Price
}

// ItemsTotal sums LineTotal over items.
func ItemsTotal(items []domain.OrderItem) float64 {
	var sum float64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return sum
}

// EffectiveTotal is the monetary total of an order. The stored total wins
// even when it disagrees with the items; the items are summed only when no
// stored total resolves.
func EffectiveTotal(o domain.Order) float64 {
	base := ResolveLegacyTotal(o)
	if base == 0 && len(o.Items) > 0 {
		return ItemsTotal(o.Items)
	}
	return base
}

// TotalQuantity sums the item quantities of an order.
func TotalQuantity(o domain.Order) int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// revenueTotal is what an order adds to revenue figures. An order whose
// items are unreadable has only its stored total; without one it adds
// nothing and is reported as not usable.
func revenueTotal(o domain.Order) (float64, bool) {
	if o.Malformed && ResolveLegacyTotal(o) == 0 {
		return 0, false
	}
	total := EffectiveTotal(o)
	return total, usable(total)
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
