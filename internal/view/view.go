// Package view turns domain values into the Indonesian display text the admin
// dashboard shows next to the raw numbers.
package view

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

const (
	NotAvailable     = "N/A"
	ImagePlaceholder = "https://via.placeholder.com/50"
)

var printer = message.NewPrinter(language.Indonesian)

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

var statusLabels = map[domain.OrderStatus]string{
	domain.OrderStatusPending:    "Menunggu",
	domain.OrderStatusProcessing: "Diproses",
	domain.OrderStatusShipped:    "Dikirim",
	domain.OrderStatusCompleted:  "Selesai",
	domain.OrderStatusCancelled:  "Dibatalkan",
}

// FormatIDR renders an amount as rupiah without decimals, e.g. "Rp 1.500".
// Amounts that do not fit an int64 show as N/A.
func FormatIDR(amount float64) string {
	r := math.Round(amount)
	if math.IsNaN(r) || r >= math.MaxInt64 || r < math.MinInt64 {
		return NotAvailable
	}
	rounded := int64(r)
	if rounded < 0 {
		return "-Rp " + printer.Sprintf("%d", -rounded)
	}
	return "Rp " + printer.Sprintf("%d", rounded)
}

// FormatDate renders a timestamp as "15 Jun 2024, 14.30" in loc, or N/A.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	local := t.In(loc)
	return fmt.Sprintf("%d %s %d, %02d.%02d",
		local.Day(), shortMonths[local.Month()-1], local.Year(), local.Hour(), local.Minute())
}

// StatusText returns the Indonesian label of a status. Unknown statuses are
// shown as stored.
func StatusText(s domain.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func ShortID(id string) string {
	if utf8.RuneCountInString(id) <= 8 {
		return "#" + id
	}
	return "#" + string([]rune(id)[:8])
}

func OrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// AvatarInitial is the upper-cased first letter of name, "A" for admins
// without a name.
func AvatarInitial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "A"
	}
	return string(unicode.ToUpper(r))
}
