package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/stats"
	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
	"github.com/joao-fontenele/storefront-admin/internal/view"
)

type CustomerLister interface {
	ListCustomers(ctx context.Context) ([]domain.User, error)
}

type OrderLister interface {
	List(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error)
}

type Handler struct {
	users  CustomerLister
	orders OrderLister
	loc    *time.Location
	logger *slog.Logger
}

func NewHandler(users CustomerLister, orders OrderLister, loc *time.Location, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		orders: orders,
		loc:    loc,
		logger: logger,
	}
}

type customerRow struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	OrderCount           int     `json:"orderCount"`
	OrderCountText       string  `json:"orderCountText"`
	CompletedRevenue     float64 `json:"completedRevenue"`
	CompletedRevenueText string  `json:"completedRevenueText"`
	JoinedAtText         string  `json:"joinedAtText"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customers, err := h.users.ListCustomers(ctx)
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rows := make([]customerRow, 0, len(customers))
	if len(customers) == 0 {
		h.writeJSON(w, http.StatusOK, rows)
		return
	}

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	summary := stats.SummarizeByCustomer(orders)
	for _, id := range summary.MissingUserID {
		h.logger.Warn("order has no userId", "order_id", id)
	}
	telemetry.RecordMissingUser(ctx, len(summary.MissingUserID))

	for _, c := range customers {
		s := summary.For(c.ID)
		rows = append(rows, customerRow{
			ID:                   c.ID,
			Name:                 view.OrDefault(c.Name, view.NotAvailable),
			Email:                view.OrDefault(c.Email, view.NotAvailable),
			Phone:                view.OrDefault(c.Phone, view.NotAvailable),
			OrderCount:           s.OrderCount,
			OrderCountText:       fmt.Sprintf("%d pesanan", s.OrderCount),
			CompletedRevenue:     s.CompletedRevenue,
			CompletedRevenueText: view.FormatIDR(s.CompletedRevenue),
			JoinedAtText:         view.FormatDate(c.CreatedAt, h.loc),
		})
	}

	h.logger.Info("customers listed", "count", len(rows))
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
