package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/auth"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Nombre    string    `json:"nombre"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"cuerpo inválido"}`, http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"email y contraseña son obligatorios"}`, http.StatusBadRequest)
		return
	}
	u, err := repo.UsuarioByEmail(r.Context(), h.Pool, req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		// Misma respuesta para usuario inexistente y contraseña incorrecta.
		http.Error(w, `{"error":"credenciales inválidas"}`, http.StatusUnauthorized)
		return
	}
	tok, err := auth.BuildJWT(h.Cfg.JWTSecret, u.ID.String(), u.Nombre, 24*time.Hour)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tok,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Nombre:    u.Nombre,
	})
}
