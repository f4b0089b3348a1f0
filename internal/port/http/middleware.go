package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/swapshop/marketplace-service/internal/domain/apperr"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/platform/token"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const (
	userIDCtxKey   = contextKey("user_id")
	userRoleCtxKey = contextKey("user_role")
)

// JWTAuth validates the Bearer token and stores the caller's identity in the
// request context.
func JWTAuth(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeError(w, log, apperr.ErrUnauthorized)
				return
			}

			claims, err := token.Parse(secret, raw)
			if err != nil {
				writeError(w, log, apperr.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, userRoleCtxKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards moderation endpoints. Must run after JWTAuth.
func RequireAdmin(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(userRoleCtxKey).(string)
			if role != string(entity.RoleAdmin) {
				writeError(w, log, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDCtxKey).(string)
	return id
}
