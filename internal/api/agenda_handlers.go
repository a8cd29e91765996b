package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/agenda"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// AgendaDia returns the full picture of one day: the slot catalog, the turnos
// placed on it and the day's summary. Cached per fecha until any mutation.
func (h *Handler) AgendaDia(w http.ResponseWriter, r *http.Request) {
	fecha, err := ParseFecha(r.URL.Query().Get("fecha"))
	if err != nil {
		fecha = time.Now()
	}
	dia := fecha.Format("2006-01-02")

	cacheKey := "agenda:dia:" + dia
	if h.Cache != nil {
		if b := h.Cache.Get(cacheKey); b != nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(b)
			return
		}
	}

	turnos, err := repo.TurnosByFecha(r.Context(), h.Pool, fecha)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	lista := make([]turnoResponse, len(turnos))
	for i := range turnos {
		lista[i] = toTurnoConPacienteResponse(&turnos[i])
	}

	payload, err := json.Marshal(map[string]interface{}{
		"fecha":    dia,
		"horarios": agenda.Slots(),
		"turnos":   lista,
		"resumen":  agenda.Resumir(turnos),
	})
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if h.Cache != nil {
		h.Cache.Set(cacheKey, payload)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

type diaMes struct {
	Fecha  string `json:"fecha"`
	EnMes  bool   `json:"en_mes"`
	Turnos int    `json:"turnos"`
}

// AgendaMes returns the month grid around ?fecha=: complete weeks starting on
// Sunday, each cell carrying its count of turnos. Leading and trailing cells
// belong to the neighbour months and are marked en_mes=false.
func (h *Handler) AgendaMes(w http.ResponseWriter, r *http.Request) {
	ref, err := ParseFecha(r.URL.Query().Get("fecha"))
	if err != nil {
		ref = time.Now()
	}
	mes := ref.Format("2006-01")

	cacheKey := "agenda:mes:" + mes
	if h.Cache != nil {
		if b := h.Cache.Get(cacheKey); b != nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(b)
			return
		}
	}

	grid := agenda.MonthGrid(ref)
	counts, err := repo.TurnosCountByFechas(r.Context(), h.Pool, grid[0], grid[len(grid)-1])
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	dias := make([]diaMes, len(grid))
	for i, d := range grid {
		key := d.Format("2006-01-02")
		dias[i] = diaMes{
			Fecha:  key,
			EnMes:  d.Month() == ref.Month(),
			Turnos: counts[key],
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"mes":  mes,
		"dias": dias,
	})
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if h.Cache != nil {
		h.Cache.Set(cacheKey, payload)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}
