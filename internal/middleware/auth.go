package middleware

import (
	"net/http"
	"strings"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/auth"
)

// RequireAuth returns a mux-compatible middleware that rejects requests
// without a valid bearer token and puts the claims in the request context.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"falta el token de autorización"}`, http.StatusUnauthorized)
				return
			}
			claims, err := auth.ParseJWT(secret, raw)
			if err != nil {
				http.Error(w, `{"error":"token inválido"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
