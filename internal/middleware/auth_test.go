package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/auth"
)

func TestRequireAuth(t *testing.T) {
	secret := []byte("test-secret-min-32-chars!!!!!!!!")
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(secret)(next)

	// sin token
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/turnos", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sin token: %d", rec.Code)
	}

	// token inválido
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/turnos", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-jwt")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("token inválido: %d", rec.Code)
	}

	// token válido: pasa y las claims quedan en el contexto
	tok, err := auth.BuildJWT(secret, "user-123", "Dra. García", time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/turnos", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("token válido: %d", rec.Code)
	}
	if gotUserID != "user-123" {
		t.Fatalf("user id en contexto: %q", gotUserID)
	}
}

func TestRequireAuthWrongScheme(t *testing.T) {
	handler := RequireAuth([]byte("test-secret-min-32-chars!!!!!!!!"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/turnos", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("esquema no Bearer: %d", rec.Code)
	}
}
