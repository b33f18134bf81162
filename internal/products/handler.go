package products

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/view"
)

type Handler struct {
	repo   *ProductRepository
	cache  cache.Cache
	logger *slog.Logger
}

func NewHandler(repo *ProductRepository, c cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

type productRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	PriceText string  `json:"priceText"`
	Stock     int     `json:"stock"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{
			ID:        p.ID,
			Name:      p.Name,
			Category:  view.OrDefault(p.Category, view.NotAvailable),
			Image:     view.OrDefault(p.Image, view.ImagePlaceholder),
			Price:     p.Price,
			PriceText: view.FormatIDR(p.Price),
			Stock:     p.Stock,
		})
	}

	h.logger.Info("products listed", "count", len(rows))
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !deleted {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.cache.Delete(r.Context(), cache.KeyDashboard); err != nil {
		h.logger.Error("failed to invalidate dashboard cache", "error", err)
	}

	h.logger.Info("product deleted", "product_id", id)
	w.WriteHeader(http.StatusNoContent)
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
