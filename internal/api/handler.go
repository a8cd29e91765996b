package api

import (
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/cache"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/scheduling"
)

type Handler struct {
	Pool  *pgxpool.Pool
	Cfg   *config.Config
	Cache *cache.TTL
}

// sched returns the scheduling repository bound to the pool.
func (h *Handler) sched() scheduling.Repository {
	return &scheduling.PgRepository{Pool: h.Pool}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// invalidateAgenda drops the cached agenda views after any turno mutation, so
// the next read refetches from the store instead of trusting local state.
func (h *Handler) invalidateAgenda() {
	if h.Cache != nil {
		h.Cache.DeletePrefix("agenda:")
	}
}
