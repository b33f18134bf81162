package view

import (
	"math"
	"testing"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Rp 0"},
		{1500, "Rp 1.500"},
		{1234567.6, "Rp 1.234.568"},
		{999, "Rp 999"},
		{-2500, "-Rp 2.500"},
		{math.NaN(), "N/A"},
		{math.Inf(-1), "N/A"},
		{1e300, "N/A"},
		{-1e300, "N/A"},
	}

	for _, tt := range tests {
		if got := FormatIDR(tt.amount); got != tt.want {
			t.Errorf("FormatIDR(%v): expected %q, got %q", tt.amount, tt.want, got)
		}
	}
}

func TestFormatDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ts := time.Date(2024, 5, 15, 7, 5, 0, 0, time.UTC)

	if got := FormatDate(&ts, jakarta); got != "15 Mei 2024, 14.05" {
		t.Errorf("expected %q, got %q", "15 Mei 2024, 14.05", got)
	}
	if got := FormatDate(nil, jakarta); got != NotAvailable {
		t.Errorf("expected N/A, got %q", got)
	}
}

func TestStatusText(t *testing.T) {
	tests := map[domain.OrderStatus]string{
		domain.OrderStatusPending:    "Menunggu",
		domain.OrderStatusProcessing: "Diproses",
		domain.OrderStatusShipped:    "Dikirim",
		domain.OrderStatusCompleted:  "Selesai",
		domain.OrderStatusCancelled:  "Dibatalkan",
		"refunded":                   "refunded",
		"":                           "",
	}

	for status, want := range tests {
		if got := StatusText(status); got != want {
			t.Errorf("StatusText(%q): expected %q, got %q", status, want, got)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abcdefghijkl"); got != "#abcdefgh" {
		t.Errorf("expected #abcdefgh, got %q", got)
	}
	if got := ShortID("abc"); got != "#abc" {
		t.Errorf("expected #abc, got %q", got)
	}
}

func TestOrDefaultAndAvatar(t *testing.T) {
	if got := OrDefault("  ", NotAvailable); got != NotAvailable {
		t.Errorf("expected N/A, got %q", got)
	}
	if got := OrDefault("Siti", NotAvailable); got != "Siti" {
		t.Errorf("expected Siti, got %q", got)
	}
	if got := AvatarInitial("siti"); got != "S" {
		t.Errorf("expected S, got %q", got)
	}
	if got := AvatarInitial(""); got != "A" {
		t.Errorf("expected A, got %q", got)
	}
}
