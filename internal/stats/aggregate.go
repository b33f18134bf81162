package stats

import "github.com/joao-fontenele/storefront-admin/internal/domain"

type Summary struct {
	TotalOrders  int     `json:"totalOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
	// Skipped lists completed orders whose total could not be used.
	Skipped []string `json:"skipped,omitempty"`
}

// Aggregate counts every order and sums the effective total of completed
// ones. A completed order with a non-finite total, or with unreadable items
// and no stored total, is left out of the revenue and reported in Skipped.
// It still counts toward TotalOrders.
func Aggregate(orders []domain.Order) Summary {
	s := Summary{TotalOrders: len(orders)}
	for _, o := range orders {
		if o.Status != domain.OrderStatusCompleted {
			continue
		}
		total, ok := revenueTotal(o)
		if !ok {
			s.Skipped = append(s.Skipped, o.ID)
			continue
		}
		s.TotalRevenue += total
	}
	return s
}

// StatusCounts counts orders per status. Unknown statuses get their own key.
func StatusCounts(orders []domain.Order) map[domain.OrderStatus]int {
	counts := make(map[domain.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}
