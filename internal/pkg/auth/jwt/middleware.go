package jwt

import (
	"context"
	"net/http"
	"strings"

	"linkup/internal/pkg/logx"
)

// contextKey prevents collisions with context keys from other packages.
type contextKey string

// ContextClaimsKey is the key under which validated Claims are stored in the
// request context.
const ContextClaimsKey contextKey = "auth_claims"

// IdentityExtractor validates a bearer token from the Authorization header
// and injects its Claims into the request context. Missing or invalid tokens
// do not interrupt the request; the caller stays anonymous and individual
// handlers decide whether identity is required.
func IdentityExtractor(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ParseToken(parts[1], secretKey)
			if err != nil {
				logx.Warn("Invalid or expired JWT provided, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the authenticated Claims from the request
// context. A nil return means the caller is anonymous.
func ClaimsFromContext(r *http.Request) *Claims {
	claims, ok := r.Context().Value(ContextClaimsKey).(*Claims)
	if !ok {
		return nil
	}

	return claims
}
