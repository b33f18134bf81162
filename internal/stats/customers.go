package stats

import "github.com/joao-fontenele/storefront-admin/internal/domain"

type CustomerSummary struct {
	OrderCount       int     `json:"orderCount"`
	CompletedRevenue float64 `json:"completedRevenue"`
}

type Customers struct {
	ByUser map[string]CustomerSummary
	// MissingUserID holds the ids of orders that reference no user.
	MissingUserID []string
}

// For returns the summary of userID, or the zero summary for a customer that
// has no orders.
func (c Customers) For(userID string) CustomerSummary {
	return c.ByUser[userID]
}

// SummarizeByCustomer groups orders by userId. Every referencing order counts;
// only completed ones add to CompletedRevenue.
func SummarizeByCustomer(orders []domain.Order) Customers {
	c := Customers{ByUser: make(map[string]CustomerSummary)}
	for _, o := range orders {
		if o.UserID == "" {
			c.MissingUserID = append(c.MissingUserID, o.ID)
			continue
		}

		sum := c.ByUser[o.UserID]
		sum.OrderCount++
		if o.Status == domain.OrderStatusCompleted {
			if total, ok := revenueTotal(o); ok {
				sum.CompletedRevenue += total
			}
		}
		c.ByUser[o.UserID] = sum
	}
	return c
}
