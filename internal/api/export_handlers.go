package api

import (
	"net/http"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/export"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// nombreExport builds the attachment filename. Every export is stamped with
// the day it was generated, never with the data's date range.
func nombreExport(prefijo, ext string, ahora time.Time) string {
	return prefijo + "_" + ahora.Format("2006-01-02") + "." + ext
}

// ExportPacientesCSV downloads the contact sheet of every paciente.
func (h *Handler) ExportPacientesCSV(w http.ResponseWriter, r *http.Request) {
	pacientes, err := repo.Pacientes(r.Context(), h.Pool)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	data, err := export.PacientesCSV(pacientes)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nombreExport("pacientes", "csv", time.Now())+`"`)
	_, _ = w.Write(data)
}

// ExportPacientesJSON downloads the full patient base as a dated manifest.
func (h *Handler) ExportPacientesJSON(w http.ResponseWriter, r *http.Request) {
	pacientes, err := repo.Pacientes(r.Context(), h.Pool)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	ahora := time.Now()
	data, err := export.PacientesJSON(pacientes, ahora)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nombreExport("pacientes", "json", ahora)+`"`)
	_, _ = w.Write(data)
}

// ExportTurnosPDF downloads the printable agenda of one day (?fecha=, hoy por
// defecto), with a QR back to the day's agenda in the app. fecha selects the
// document content; the filename carries the export day like the other two.
func (h *Handler) ExportTurnosPDF(w http.ResponseWriter, r *http.Request) {
	fecha, err := ParseFecha(r.URL.Query().Get("fecha"))
	if err != nil {
		fecha = time.Now()
	}
	turnos, err := repo.TurnosByFecha(r.Context(), h.Pool, fecha)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	data, err := export.TurnosPDF(fecha, turnos, h.Cfg.AppPublicURL)
	if err != nil {
		http.Error(w, `{"error":"no se pudo generar el PDF"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nombreExport("turnos", "pdf", time.Now())+`"`)
	_, _ = w.Write(data)
}
