// Package export renders the in-memory patient and turno lists as CSV, JSON
// and PDF downloads. Formatting never fails on missing optional fields and an
// empty list always produces a valid (empty-body) document.
package export

import (
	"bytes"
	"encoding/csv"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// CSVHeader is the mandatory header row of the patient export.
var CSVHeader = []string{"nombre", "apellido", "telefono", "email"}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PacientesCSV renders the patient list as UTF-8 CSV, one row per paciente in
// input order. encoding/csv takes care of quoting embedded delimiters, quotes
// and newlines.
func PacientesCSV(pacientes []repo.Paciente) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, p := range pacientes {
		row := []string{p.Nombre, p.Apellido, deref(p.Telefono), deref(p.Email)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
