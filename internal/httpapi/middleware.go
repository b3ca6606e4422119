package httpapi

import (
	"context"
	"net/http"
	"strings"

	"example.com/mafia/internal/auth"
)

type ctxKey string

const playerKey ctxKey = "player"

// Verifier resolves a bearer token to its claims.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

func AuthMiddleware(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			claims, err := tokens.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), playerKey, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PlayerFromContext returns the display name set by AuthMiddleware.
func PlayerFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(playerKey).(string)
	return s, ok && s != ""
}
