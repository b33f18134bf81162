package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

type contextKey struct{}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKey{}).(*Claims)
	return c, ok
}

type Middleware struct {
	tokens *Tokens
	cache  cache.Cache
	logger *slog.Logger
}

func NewMiddleware(tokens *Tokens, c cache.Cache, logger *slog.Logger) *Middleware {
	return &Middleware{tokens: tokens, cache: c, logger: logger}
}

// RequireAdmin lets a request through only with a valid, unrevoked bearer
// token of an admin. The claims are stored in the request context.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, m.logger, http.StatusUnauthorized, "missing authorization header")
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			writeError(w, m.logger, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			m.logger.Warn("invalid token attempt", "error", err)
			writeError(w, m.logger, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		revoked, err := cache.IsRevoked(r.Context(), m.cache, claims.ID)
		if err != nil {
			m.logger.Error("failed to check token denylist", "error", err)
			writeError(w, m.logger, http.StatusInternalServerError, "internal server error")
			return
		}
		if revoked {
			writeError(w, m.logger, http.StatusUnauthorized, ErrTokenRevoked.Error())
			return
		}

		if claims.Role != domain.RoleAdmin {
			writeError(w, m.logger, http.StatusForbidden, ErrNotAdmin.Error())
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, claims)))
	}
}
