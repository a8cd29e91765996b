package export

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

func TestTurnosPDF(t *testing.T) {
	fecha := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	turnos := []repo.TurnoConPaciente{
		{
			Turno: repo.Turno{
				ID: uuid.New(), PacienteID: uuid.New(),
				Fecha: fecha, Hora: "10:00",
				Estado: repo.EstadoProgramado, Pago: repo.PagoImpago,
				Notas: ptr("primera consulta"),
			},
			Nombre: "Ana", Apellido: "García",
		},
	}
	data, err := TurnosPDF(fecha, turnos, "http://localhost:5173")
	if err != nil {
		t.Fatalf("TurnosPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("el documento no arranca con %%PDF: %q", data[:8])
	}
}

func TestRecortar(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"corta", 28, "corta"},
		{"exactamente-siete", 17, "exactamente-siete"},
		{"dolor de cabeza y contractura cervical", 28, "dolor de cabeza y contractur..."},
		// acentos: recortar por runas, no por bytes
		{"evaluación de columna lumbar y cadera", 10, "evaluación..."},
		{"ññññ", 2, "ññ..."},
	}
	for _, c := range cases {
		got := recortar(c.in, c.max)
		if got != c.want {
			t.Fatalf("recortar(%q, %d)=%q, quería %q", c.in, c.max, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("recortar(%q, %d) produjo utf-8 inválido", c.in, c.max)
		}
	}
}

func TestTurnosPDFDiaVacio(t *testing.T) {
	fecha := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	data, err := TurnosPDF(fecha, nil, "")
	if err != nil {
		t.Fatalf("TurnosPDF sin turnos: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("un día vacío igual produce un PDF válido")
	}
}
