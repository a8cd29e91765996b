package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds each request's context. With timeoutSec <= 0 it is a no-op.
func Timeout(timeoutSec int) func(http.Handler) http.Handler {
	if timeoutSec <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	d := time.Duration(timeoutSec) * time.Second
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
