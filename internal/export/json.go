package export

import (
	"encoding/json"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// PacienteJSON is one exported record. Optional fields serialize as null.
type PacienteJSON struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Direccion       *string `json:"direccion"`
	NumeroFicha     *string `json:"numero_ficha"`
}

// Manifiesto wraps the exported records with the export timestamp and the
// record count. TotalPacientes always equals len(Pacientes).
type Manifiesto struct {
	FechaExportacion time.Time      `json:"fecha_exportacion"`
	TotalPacientes   int            `json:"total_pacientes"`
	Pacientes        []PacienteJSON `json:"pacientes"`
}

// NewManifiesto builds the export document for the given patient list at the
// given instant. An empty list yields total_pacientes: 0, pacientes: [].
func NewManifiesto(pacientes []repo.Paciente, ahora time.Time) Manifiesto {
	records := make([]PacienteJSON, 0, len(pacientes))
	for _, p := range pacientes {
		records = append(records, PacienteJSON{
			ID:              p.ID.String(),
			Nombre:          p.Nombre,
			Apellido:        p.Apellido,
			Telefono:        p.Telefono,
			Email:           p.Email,
			FechaNacimiento: p.FechaNacimiento,
			Direccion:       p.Direccion,
			NumeroFicha:     p.NumeroFicha,
		})
	}
	return Manifiesto{
		FechaExportacion: ahora,
		TotalPacientes:   len(records),
		Pacientes:        records,
	}
}

// PacientesJSON renders the manifest document as indented JSON.
func PacientesJSON(pacientes []repo.Paciente, ahora time.Time) ([]byte, error) {
	return json.MarshalIndent(NewManifiesto(pacientes, ahora), "", "  ")
}
