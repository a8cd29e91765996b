package agenda

import "github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"

// Resumen are the day counters shown above the agenda: total turnos, counts
// per estado and per estado de pago.
type Resumen struct {
	Total       int `json:"total"`
	Programados int `json:"programados"`
	Completados int `json:"completados"`
	Cancelados  int `json:"cancelados"`
	Pagados     int `json:"pagados"`
	Impagos     int `json:"impagos"`
}

// Resumir counts the day's turnos in one pass. An empty (or nil) list is a
// normal input and yields all-zero counters.
func Resumir(turnos []repo.TurnoConPaciente) Resumen {
	var r Resumen
	for _, t := range turnos {
		r.Total++
		switch t.Estado {
		case repo.EstadoProgramado:
			r.Programados++
		case repo.EstadoCompletado:
			r.Completados++
		case repo.EstadoCancelado:
			r.Cancelados++
		}
		switch t.Pago {
		case repo.PagoPagado:
			r.Pagados++
		case repo.PagoImpago:
			r.Impagos++
		}
	}
	return r
}
