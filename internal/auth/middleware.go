package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey int

const principalContextKey contextKey = iota

// ContextWithPrincipal returns a new context carrying the given principal.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext extracts the principal from the context, or nil if
// not present.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// Middleware returns middleware that resolves the session cookie to a
// Principal and injects it into the request context. Requests without a
// valid session get a 401 JSON envelope.
func Middleware(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w, "missing session")
				return
			}

			p, err := sessions.Lookup(cookie.Value)
			if err != nil {
				writeUnauthorized(w, "invalid or expired session")
				return
			}

			ctx := ContextWithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthorized", "message": message},
	})
}
