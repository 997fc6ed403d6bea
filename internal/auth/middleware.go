package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/contabilidadepro/contabilidade-api/internal/utils"
)

type ctxKey string

const claimsKey ctxKey = "user_claims"

// ClaimsFrom devolve os claims gravados pelo Middleware.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// Middleware exige "Authorization: Bearer <token>" válido.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			h := r.Header.Get("Authorization")
			if h == "" {
				utils.WriteError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || raw == "" {
				utils.WriteError(w, http.StatusUnauthorized, "invalid token format")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole responde 403 quando os claims não têm a role.
func RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || !claims.HasRole(role) {
			utils.WriteError(w, http.StatusForbidden, "access denied: missing role "+role)
			return
		}
		next.ServeHTTP(w, r)
	})
}
