package scheduling

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// Resultado of a follow-up attempt. The attempt runs after a turno is marked
// completado and is best-effort: whatever happens here, the primary save
// already succeeded.
const (
	SeguimientoCreado      = "creado"       // a new turno was scheduled
	SeguimientoYaExiste    = "ya_existe"    // same paciente already holds the slot
	SeguimientoSlotOcupado = "slot_ocupado" // another paciente holds the slot
	SeguimientoError       = "error"        // store error, logged and swallowed
)

// Seguimiento is the outcome reported back to the user as a secondary,
// informational note on the "mark completed" response.
type Seguimiento struct {
	Resultado string `json:"resultado"`
	// TurnoID is a pointer: uuid.UUID is an array and omitempty would still
	// serialize the zero uuid on the outcomes that carry no turno.
	TurnoID *uuid.UUID `json:"turno_id,omitempty"`
	Fecha   string     `json:"fecha,omitempty"`
	Hora    string     `json:"hora,omitempty"`
	Mensaje string     `json:"mensaje"`
}

// FechaSeguimiento computes the follow-up date: 14 calendar days after fecha,
// shifted one day forward if it lands on a Sunday. 14 is a whole number of
// weeks, so the landing weekday equals the source weekday and a single +1 is
// always enough; the result is never a Sunday.
func FechaSeguimiento(fecha time.Time) time.Time {
	f := fecha.AddDate(0, 0, 14)
	if f.Weekday() == time.Sunday {
		f = f.AddDate(0, 0, 1)
	}
	return f
}

// ProgramarSeguimiento tries to schedule the follow-up turno 14 days after a
// completed visit, at the same hora. It never returns an error: failures are
// logged and folded into the outcome so the caller's primary save cannot be
// affected.
func ProgramarSeguimiento(ctx context.Context, r Repository, pacienteID uuid.UUID, fecha time.Time, hora string) Seguimiento {
	f := FechaSeguimiento(fecha)
	fechaStr := f.Format("2006-01-02")

	ocupante, err := r.TurnoAt(ctx, f, hora, nil)
	if err != nil {
		log.Printf("[seguimiento] consulta de slot %s %s: %v", fechaStr, hora, err)
		return Seguimiento{
			Resultado: SeguimientoError,
			Mensaje:   "No se pudo verificar el turno de seguimiento; agendalo manualmente.",
		}
	}
	if ocupante != nil {
		if ocupante.PacienteID == pacienteID {
			existente := ocupante.ID
			return Seguimiento{
				Resultado: SeguimientoYaExiste,
				TurnoID:   &existente,
				Fecha:     fechaStr,
				Hora:      hora,
				Mensaje:   fmt.Sprintf("Ya hay un seguimiento agendado para el %s a las %s.", f.Format("02/01/2006"), hora),
			}
		}
		return Seguimiento{
			Resultado: SeguimientoSlotOcupado,
			Fecha:     fechaStr,
			Hora:      hora,
			Mensaje:   fmt.Sprintf("El horario del %s a las %s ya está ocupado; agendá el seguimiento manualmente.", f.Format("02/01/2006"), hora),
		}
	}

	notas := fmt.Sprintf("Seguimiento automático de la consulta del %s", fecha.Format("02/01/2006"))
	id, err := r.CreateTurno(ctx, pacienteID, f, hora, repo.EstadoProgramado, repo.PagoImpago, &notas)
	if err != nil {
		// Race between check and insert: the unique index fired, someone else
		// took the slot. Same outcome as finding it occupied.
		if IsUniqueViolation(err) {
			return Seguimiento{
				Resultado: SeguimientoSlotOcupado,
				Fecha:     fechaStr,
				Hora:      hora,
				Mensaje:   fmt.Sprintf("El horario del %s a las %s ya está ocupado; agendá el seguimiento manualmente.", f.Format("02/01/2006"), hora),
			}
		}
		log.Printf("[seguimiento] crear turno %s %s: %v", fechaStr, hora, err)
		return Seguimiento{
			Resultado: SeguimientoError,
			Mensaje:   "No se pudo crear el turno de seguimiento; agendalo manualmente.",
		}
	}
	return Seguimiento{
		Resultado: SeguimientoCreado,
		TurnoID:   &id,
		Fecha:     fechaStr,
		Hora:      hora,
		Mensaje:   fmt.Sprintf("Seguimiento agendado para el %s a las %s.", f.Format("02/01/2006"), hora),
	}
}
