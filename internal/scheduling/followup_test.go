package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

func TestFechaSeguimiento(t *testing.T) {
	cases := []struct {
		consulta string
		want     string
	}{
		// lunes + 14 días cae lunes
		{"2026-01-12", "2026-01-26"},
		{"2026-01-05", "2026-01-19"},
		// domingo + 14 días cae domingo: se corre al lunes
		{"2026-01-04", "2026-01-19"},
		// ídem, con cruce de mes
		{"2026-01-25", "2026-02-09"},
	}
	for _, c := range cases {
		fecha, err := time.Parse("2006-01-02", c.consulta)
		if err != nil {
			t.Fatal(err)
		}
		got := FechaSeguimiento(fecha).Format("2006-01-02")
		if got != c.want {
			t.Fatalf("FechaSeguimiento(%s)=%s, quería %s", c.consulta, got, c.want)
		}
		if FechaSeguimiento(fecha).Weekday() == time.Sunday {
			t.Fatalf("FechaSeguimiento(%s) cayó domingo", c.consulta)
		}
	}
}

func TestProgramarSeguimientoCreado(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	paciente := uuid.New()
	consulta := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC) // lunes

	seg := ProgramarSeguimiento(ctx, f, paciente, consulta, "10:00")
	if seg.Resultado != SeguimientoCreado {
		t.Fatalf("resultado %q: %+v", seg.Resultado, seg)
	}
	if seg.Fecha != "2026-01-26" || seg.Hora != "10:00" {
		t.Fatalf("destino %s %s", seg.Fecha, seg.Hora)
	}
	creado := f.turnos["2026-01-26 10:00"]
	if creado == nil || seg.TurnoID == nil || creado.ID != *seg.TurnoID {
		t.Fatalf("el turno no quedó en el store: %+v", seg)
	}
	if creado.Estado != repo.EstadoProgramado || creado.Pago != repo.PagoImpago {
		t.Fatalf("turno creado: %+v", creado)
	}
	if creado.Notas == nil || *creado.Notas != "Seguimiento automático de la consulta del 12/01/2026" {
		t.Fatalf("notas: %v", creado.Notas)
	}
}

func TestProgramarSeguimientoEvitaDomingo(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	consulta := time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC) // domingo

	seg := ProgramarSeguimiento(ctx, f, uuid.New(), consulta, "09:30")
	if seg.Resultado != SeguimientoCreado || seg.Fecha != "2026-01-19" {
		t.Fatalf("seguimiento: %+v", seg)
	}
}

func TestProgramarSeguimientoYaExiste(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	paciente := uuid.New()
	consulta := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
	destino := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	previo := f.agendar(paciente, destino, "10:00", repo.EstadoProgramado)

	seg := ProgramarSeguimiento(ctx, f, paciente, consulta, "10:00")
	if seg.Resultado != SeguimientoYaExiste {
		t.Fatalf("resultado %q: %+v", seg.Resultado, seg)
	}
	if seg.TurnoID == nil || *seg.TurnoID != previo.ID {
		t.Fatalf("debe apuntar al turno existente: %+v", seg)
	}
}

func TestProgramarSeguimientoSlotOcupado(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	consulta := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
	destino := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	f.agendar(uuid.New(), destino, "10:00", repo.EstadoProgramado) // otro paciente

	seg := ProgramarSeguimiento(ctx, f, uuid.New(), consulta, "10:00")
	if seg.Resultado != SeguimientoSlotOcupado {
		t.Fatalf("resultado %q: %+v", seg.Resultado, seg)
	}
	if seg.TurnoID != nil {
		t.Fatalf("no debe exponer el turno ajeno: %+v", seg)
	}
	// en la respuesta JSON el turno_id directamente no aparece
	b, err := json.Marshal(seg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "turno_id") {
		t.Fatalf("turno_id no debe serializarse sin turno: %s", b)
	}
}

func TestProgramarSeguimientoCarreraUnicidad(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	// el chequeo previo ve el slot libre pero el insert pierde la carrera
	f.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_turnos_slot"}
	consulta := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)

	seg := ProgramarSeguimiento(ctx, f, uuid.New(), consulta, "10:00")
	if seg.Resultado != SeguimientoSlotOcupado {
		t.Fatalf("el 23505 debe normalizarse a slot ocupado: %+v", seg)
	}
}

func TestProgramarSeguimientoErrorDeStore(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	f.createErr = errors.New("connection reset")
	consulta := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)

	seg := ProgramarSeguimiento(ctx, f, uuid.New(), consulta, "10:00")
	if seg.Resultado != SeguimientoError {
		t.Fatalf("resultado %q: %+v", seg.Resultado, seg)
	}
	if seg.Mensaje == "" {
		t.Fatal("el error debe traducirse a un mensaje para el usuario")
	}
}
