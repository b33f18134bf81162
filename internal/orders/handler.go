package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/stats"
	"github.com/joao-fontenele/storefront-admin/internal/view"
)

// Publisher sends order events; messaging.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Handler struct {
	repo      *OrderRepository
	publisher Publisher
	cache     cache.Cache
	loc       *time.Location
	logger    *slog.Logger
}

// NewHandler wires the order routes. publisher may be nil when no broker is
// configured.
func NewHandler(repo *OrderRepository, publisher Publisher, c cache.Cache, loc *time.Location, logger *slog.Logger) *Handler {
	return &Handler{
		repo:      repo,
		publisher: publisher,
		cache:     c,
		loc:       loc,
		logger:    logger,
	}
}

// Row is an order as listed in tables.
type Row struct {
	ID            string             `json:"id"`
	ShortID       string             `json:"shortId"`
	CustomerName  string             `json:"customerName"`
	Total         float64            `json:"total"`
	TotalText     string             `json:"totalText"`
	Status        domain.OrderStatus `json:"status"`
	StatusText    string             `json:"statusText"`
	CreatedAt     *time.Time         `json:"createdAt,omitempty"`
	CreatedAtText string             `json:"createdAtText"`
	CanComplete   bool               `json:"canComplete"`
	Malformed     bool               `json:"malformed,omitempty"`
}

func NewRow(o domain.Order, loc *time.Location) Row {
	total := stats.EffectiveTotal(o)
	return Row{
		ID:            o.ID,
		ShortID:       view.ShortID(o.ID),
		CustomerName:  view.OrDefault(o.CustomerName, view.NotAvailable),
		Total:         total,
		TotalText:     view.FormatIDR(total),
		Status:        o.Status,
		StatusText:    view.StatusText(o.Status),
		CreatedAt:     o.CreatedAt,
		CreatedAtText: view.FormatDate(o.CreatedAt, loc),
		CanComplete:   !o.Status.Final() && !o.Malformed,
		Malformed:     o.Malformed,
	}
}

type itemRow struct {
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	PriceText     string  `json:"priceText"`
	LineTotal     float64 `json:"lineTotal"`
	LineTotalText string  `json:"lineTotalText"`
}

type detail struct {
	Row
	Items         []itemRow `json:"items"`
	TotalQuantity int       `json:"totalQuantity"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var statuses []domain.OrderStatus
	for _, s := range strings.Split(r.URL.Query().Get("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, domain.OrderStatus(s))
		}
	}

	orders, err := h.repo.List(r.Context(), statuses...)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rows := make([]Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, NewRow(o, h.loc))
	}

	h.logger.Info("orders listed", "count", len(rows))
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrMalformed) {
		h.logger.Warn("order document is unreadable", "error", err, "order_id", id)
		h.writeError(w, http.StatusUnprocessableEntity, "order data is malformed")
		return
	}
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	d := detail{
		Row:           NewRow(*order, h.loc),
		Items:         make([]itemRow, 0, len(order.Items)),
		TotalQuantity: stats.TotalQuantity(*order),
	}
	for _, item := range order.Items {
		line := stats.LineTotal(item)
		d.Items = append(d.Items, itemRow{
			Name:          item.Name,
			Quantity:      item.Quantity,
			Price:         item.Price,
			PriceText:     view.FormatIDR(item.Price),
			LineTotal:     line,
			LineTotalText: view.FormatIDR(line),
		})
	}

	h.writeJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.MarkCompleted(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotCompletable):
		h.writeError(w, http.StatusConflict, "order is already completed or cancelled")
		return
	case errors.Is(err, ErrMalformed):
		h.logger.Warn("order document is unreadable", "error", err, "order_id", id)
		h.writeError(w, http.StatusUnprocessableEntity, "order data is malformed")
		return
	case err != nil:
		h.logger.Error("failed to complete order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	if err := h.cache.Delete(r.Context(), cache.KeyDashboard, cache.KeySalesReport); err != nil {
		h.logger.Error("failed to invalidate cached figures", "error", err, "order_id", id)
	}

	if h.publisher != nil {
		event := domain.OrderCompletedEvent{
			EventID:     uuid.NewString(),
			OrderID:     order.ID,
			UserID:      order.UserID,
			Total:       stats.EffectiveTotal(*order),
			CompletedAt: time.Now().UTC(),
		}
		if err := h.publisher.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order completed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order completed", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, NewRow(*order, h.loc))
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
