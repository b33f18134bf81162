package stats

import (
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

type Sales struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
}

// Windows holds the start of each sales bucket.
type Windows struct {
	TodayStart time.Time
	WeekStart  time.Time
	MonthStart time.Time
	YearStart  time.Time
}

// WindowsAt computes bucket starts in now's location. The week is a rolling
// seven days, not a calendar week.
func WindowsAt(now time.Time) Windows {
	loc := now.Location()
	y, m, d := now.Date()
	return Windows{
		TodayStart: time.Date(y, m, d, 0, 0, 0, 0, loc),
		WeekStart:  now.AddDate(0, 0, -7),
		MonthStart: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		YearStart:  time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
	}
}

// BucketSales sums completed orders into overlapping buckets: an order placed
// today counts toward all four. Orders without createdAt are ignored.
func BucketSales(orders []domain.Order, now time.Time) Sales {
	w := WindowsAt(now)

	var s Sales
	for _, o := range orders {
		if o.Status != domain.OrderStatusCompleted || o.CreatedAt == nil || o.CreatedAt.IsZero() {
			continue
		}
		total, ok := revenueTotal(o)
		if !ok {
			continue
		}

		at := *o.CreatedAt
		if !at.Before(w.TodayStart) {
			s.Today += total
		}
		if !at.Before(w.WeekStart) {
			s.Week += total
		}
		if !at.Before(w.MonthStart) {
			s.Month += total
		}
		if !at.Before(w.YearStart) {
			s.Year += total
		}
	}
	return s
}
