package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gcclean/waste-backend/internal/api/httpx"
	"github.com/gcclean/waste-backend/internal/auth"
)

type ctxKey string

const ctxClaimsKey ctxKey = "claims"

// SessionClaims returns the authenticated user's claims, if any.
func SessionClaims(ctx context.Context) (*auth.Claims, bool) {
	v, ok := ctx.Value(ctxClaimsKey).(*auth.Claims)
	return v, ok
}

type AuthMiddleware struct {
	TM *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{TM: tm}
}

// Auth requires a Bearer access token and stashes its claims in the
// request context. Refresh tokens are rejected here; they are only good
// for the refresh endpoint.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, isRefresh, err := m.TM.ParseAny(token)
		if err != nil || isRefresh {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token", nil)
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
