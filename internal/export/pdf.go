package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// TurnosPDF renders the printable daily appointment list: one row per turno
// with hora, paciente, estado, pago and notas. appURL, when non-empty, is
// encoded as a QR in the footer so the printed sheet links back to the agenda
// day in the app.
func TurnosPDF(fecha time.Time, turnos []repo.TurnoConPaciente, appURL string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Turnos del "+fecha.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Exportado el %s - %d turnos", time.Now().Format("02/01/2006 15:04"), len(turnos)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(18, 7, "Hora", "1", 0, "C", true, 0, "")
	pdf.CellFormat(72, 7, "Paciente", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 7, "Estado", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 7, "Pago", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Notas", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(turnos) == 0 {
		pdf.CellFormat(180, 7, "Sin turnos para este dia", "1", 1, "C", false, 0, "")
	}
	for _, t := range turnos {
		notas := ""
		if t.Notas != nil {
			notas = recortar(*t.Notas, 28)
		}
		pdf.CellFormat(18, 7, t.Hora, "1", 0, "C", false, 0, "")
		pdf.CellFormat(72, 7, t.Apellido+", "+t.Nombre, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 7, t.Estado, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 7, t.Pago, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, notas, "1", 1, "L", false, 0, "")
	}

	if appURL != "" {
		link := fmt.Sprintf("%s/agenda?fecha=%s", appURL, fecha.Format("2006-01-02"))
		if qrPNG, err := qrcode.Encode(link, qrcode.Medium, 128); err == nil {
			pdf.Ln(6)
			pdf.RegisterImageOptionsReader("agenda-qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
			pdf.ImageOptions("agenda-qr", 15, pdf.GetY(), 22, 22, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			pdf.SetY(pdf.GetY() + 23)
			pdf.SetFont("Helvetica", "", 8)
			pdf.CellFormat(0, 5, "Ver este dia en la agenda: "+link, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// recortar truncates s to max runes, not bytes, so accented notes do not end
// in a mangled half-character.
func recortar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
