package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/agenda"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/scheduling"
)

const msgSlotOcupado = `{"error":"ese horario ya está ocupado por otro turno"}`

type turnoResponse struct {
	ID         string  `json:"id"`
	PacienteID string  `json:"paciente_id"`
	Paciente   string  `json:"paciente,omitempty"`
	Fecha      string  `json:"fecha"`
	Hora       string  `json:"hora"`
	Estado     string  `json:"estado"`
	Pago       string  `json:"pago"`
	Notas      *string `json:"notas"`
}

func toTurnoResponse(t *repo.Turno) turnoResponse {
	return turnoResponse{
		ID:         t.ID.String(),
		PacienteID: t.PacienteID.String(),
		Fecha:      t.Fecha.Format("2006-01-02"),
		Hora:       t.Hora,
		Estado:     t.Estado,
		Pago:       t.Pago,
		Notas:      t.Notas,
	}
}

func toTurnoConPacienteResponse(t *repo.TurnoConPaciente) turnoResponse {
	out := toTurnoResponse(&t.Turno)
	if t.Apellido != "" || t.Nombre != "" {
		out.Paciente = t.Apellido + ", " + t.Nombre
	}
	return out
}

func validEstado(s string) bool {
	return s == repo.EstadoProgramado || s == repo.EstadoCompletado || s == repo.EstadoCancelado
}

func validPago(s string) bool {
	return s == repo.PagoPagado || s == repo.PagoImpago
}

// ListTurnos returns one day (?fecha=) or a range (?desde=&hasta=), ordered
// by fecha, hora.
func (h *Handler) ListTurnos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var desde, hasta time.Time
	var err error
	switch {
	case q.Get("fecha") != "":
		desde, err = ParseFecha(q.Get("fecha"))
		hasta = desde
	case q.Get("desde") != "" && q.Get("hasta") != "":
		desde, err = ParseFecha(q.Get("desde"))
		if err == nil {
			hasta, err = ParseFecha(q.Get("hasta"))
		}
	default:
		err = ErrFechaInvalida
	}
	if err != nil {
		http.Error(w, `{"error":"fecha (o desde/hasta) en formato YYYY-MM-DD es obligatoria"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.TurnosByRango(r.Context(), h.Pool, desde, hasta)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]turnoResponse, len(list))
	for i := range list {
		out[i] = toTurnoConPacienteResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"turnos": out, "total": len(out)})
}

type createTurnoRequest struct {
	PacienteID string  `json:"paciente_id"`
	Fecha      string  `json:"fecha"`
	Hora       string  `json:"hora"`
	Estado     string  `json:"estado"`
	Pago       string  `json:"pago"`
	Notas      *string `json:"notas"`
}

func (h *Handler) CreateTurno(w http.ResponseWriter, r *http.Request) {
	var req createTurnoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"cuerpo inválido"}`, http.StatusBadRequest)
		return
	}
	pacienteID, err := uuid.Parse(req.PacienteID)
	if err != nil {
		http.Error(w, `{"error":"paciente_id inválido"}`, http.StatusBadRequest)
		return
	}
	// Sin fecha en el formulario se agenda para el día que se está viendo,
	// que el cliente manda; como último recurso, hoy.
	fecha := time.Now()
	if req.Fecha != "" {
		if fecha, err = ParseFecha(req.Fecha); err != nil {
			http.Error(w, `{"error":"fecha inválida"}`, http.StatusBadRequest)
			return
		}
	}
	if !agenda.ValidSlot(req.Hora) {
		http.Error(w, `{"error":"hora fuera del catálogo de horarios"}`, http.StatusBadRequest)
		return
	}
	if req.Estado == "" {
		req.Estado = repo.EstadoProgramado
	}
	if req.Pago == "" {
		req.Pago = repo.PagoImpago
	}
	if !validEstado(req.Estado) || !validPago(req.Pago) {
		http.Error(w, `{"error":"estado o pago inválido"}`, http.StatusBadRequest)
		return
	}

	// Pre-chequeo de conflicto (UX); el índice único es la garantía real.
	if _, err := scheduling.CheckConflict(r.Context(), h.sched(), fecha, req.Hora, nil); err != nil {
		if errors.Is(err, scheduling.ErrSlotOcupado) {
			http.Error(w, msgSlotOcupado, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	id, err := repo.CreateTurno(r.Context(), h.Pool, pacienteID, fecha, req.Hora, req.Estado, req.Pago, req.Notas)
	if err != nil {
		if scheduling.IsUniqueViolation(err) {
			http.Error(w, msgSlotOcupado, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	created, err := repo.TurnoByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toTurnoResponse(created))
}

type patchTurnoRequest struct {
	Fecha  *string `json:"fecha"`
	Hora   *string `json:"hora"`
	Estado *string `json:"estado"`
	Pago   *string `json:"pago"`
	Notas  *string `json:"notas"`
}

// PatchTurno updates a turno in place. Moving fecha/hora frees the previous
// slot implicitly (same row, new values). When the estado transitions into
// completado, the follow-up scheduler runs as a best-effort second phase and
// its outcome is attached to the response; it can never fail the save itself.
func (h *Handler) PatchTurno(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, `{"error":"id inválido"}`, http.StatusBadRequest)
		return
	}
	var req patchTurnoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"cuerpo inválido"}`, http.StatusBadRequest)
		return
	}

	actual, err := repo.TurnoByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"turno no encontrado"}`, http.StatusNotFound)
		return
	}

	var fecha *time.Time
	if req.Fecha != nil {
		f, err := ParseFecha(*req.Fecha)
		if err != nil {
			http.Error(w, `{"error":"fecha inválida"}`, http.StatusBadRequest)
			return
		}
		fecha = &f
	}
	if req.Hora != nil && !agenda.ValidSlot(*req.Hora) {
		http.Error(w, `{"error":"hora fuera del catálogo de horarios"}`, http.StatusBadRequest)
		return
	}
	if req.Estado != nil && !validEstado(*req.Estado) {
		http.Error(w, `{"error":"estado inválido"}`, http.StatusBadRequest)
		return
	}
	if req.Pago != nil && !validPago(*req.Pago) {
		http.Error(w, `{"error":"pago inválido"}`, http.StatusBadRequest)
		return
	}

	// Destino del turno tras el patch, para el chequeo de conflicto.
	nuevaFecha := actual.Fecha
	if fecha != nil {
		nuevaFecha = *fecha
	}
	nuevaHora := actual.Hora
	if req.Hora != nil {
		nuevaHora = *req.Hora
	}
	if fecha != nil || req.Hora != nil {
		// El propio turno se excluye: re-guardarse en su slot no es conflicto.
		if _, err := scheduling.CheckConflict(r.Context(), h.sched(), nuevaFecha, nuevaHora, &id); err != nil {
			if errors.Is(err, scheduling.ErrSlotOcupado) {
				http.Error(w, msgSlotOcupado, http.StatusConflict)
				return
			}
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
	}

	if err := repo.UpdateTurno(r.Context(), h.Pool, id, fecha, req.Hora, req.Estado, req.Pago, req.Notas); err != nil {
		if scheduling.IsUniqueViolation(err) {
			http.Error(w, msgSlotOcupado, http.StatusConflict)
			return
		}
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"turno no encontrado"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()

	guardado, err := repo.TurnoByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{"turno": toTurnoResponse(guardado)}

	// Fase dos, best-effort: al pasar a completado se intenta agendar el
	// seguimiento. Pase lo que pase acá, el guardado de arriba ya está hecho.
	if actual.Estado != repo.EstadoCompletado && guardado.Estado == repo.EstadoCompletado {
		seg := scheduling.ProgramarSeguimiento(r.Context(), h.sched(), guardado.PacienteID, guardado.Fecha, guardado.Hora)
		if seg.Resultado == scheduling.SeguimientoCreado {
			h.invalidateAgenda()
		}
		resp["seguimiento"] = seg
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteTurno(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, `{"error":"id inválido"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteTurno(r.Context(), h.Pool, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"turno no encontrado"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "turno eliminado"})
}
