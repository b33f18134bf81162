package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/view"
)

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Handler struct {
	users  UserFinder
	tokens *Tokens
	cache  cache.Cache
	logger *slog.Logger
}

func NewHandler(users UserFinder, tokens *Tokens, c cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		cache:  c,
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   profile   `json:"profile"`
}

type profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func newProfile(u *domain.User, fallbackEmail string) profile {
	email := u.Email
	if email == "" {
		email = fallbackEmail
	}
	return profile{
		ID:     u.ID,
		Name:   view.OrDefault(u.Name, "Admin"),
		Email:  email,
		Avatar: view.AvatarInitial(u.Name),
	}
}

// Authenticate checks credentials and returns the admin they belong to.
func (h *Handler) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		h.logger.Warn("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return user, nil
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, ErrNotAdmin):
		h.logger.Warn("non-admin login attempt", "email", req.Email)
		h.writeError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to authenticate", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, claims, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("admin logged in", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Profile:   newProfile(user, user.Email),
	})
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		h.logger.Error("failed to load admin profile", "error", err, "user_id", claims.Subject)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		user = &domain.User{ID: claims.Subject}
	}

	h.writeJSON(w, http.StatusOK, newProfile(user, claims.Email))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := cache.Revoke(r.Context(), h.cache, claims.ID, h.tokens.Remaining(claims)); err != nil {
		h.logger.Error("failed to revoke token", "error", err, "user_id", claims.Subject)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("admin logged out", "user_id", claims.Subject)
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
	writeError(w, h.logger, status, message)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
