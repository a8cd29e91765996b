package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// fakeRepo keeps turnos in memory, keyed by fecha+hora, and honours the same
// contract as the real store: cancelled turnos do not occupy a slot and a
// second insert on a taken slot fails with a 23505.
type fakeRepo struct {
	turnos    map[string]*repo.Turno
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{turnos: map[string]*repo.Turno{}}
}

func slotKey(fecha time.Time, hora string) string {
	return fecha.Format("2006-01-02") + " " + hora
}

func (f *fakeRepo) TurnoAt(_ context.Context, fecha time.Time, hora string, excludeID *uuid.UUID) (*repo.Turno, error) {
	t, ok := f.turnos[slotKey(fecha, hora)]
	if !ok || t.Estado == repo.EstadoCancelado {
		return nil, nil
	}
	if excludeID != nil && t.ID == *excludeID {
		return nil, nil
	}
	return t, nil
}

func (f *fakeRepo) CreateTurno(_ context.Context, pacienteID uuid.UUID, fecha time.Time, hora, estado, pago string, notas *string) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	key := slotKey(fecha, hora)
	if t, ok := f.turnos[key]; ok && t.Estado != repo.EstadoCancelado {
		return uuid.Nil, &pgconn.PgError{Code: "23505", ConstraintName: "uq_turnos_slot"}
	}
	t := &repo.Turno{
		ID: uuid.New(), PacienteID: pacienteID,
		Fecha: fecha, Hora: hora, Estado: estado, Pago: pago, Notas: notas,
	}
	f.turnos[key] = t
	return t.ID, nil
}

func (f *fakeRepo) agendar(pacienteID uuid.UUID, fecha time.Time, hora, estado string) *repo.Turno {
	t := &repo.Turno{
		ID: uuid.New(), PacienteID: pacienteID,
		Fecha: fecha, Hora: hora, Estado: estado, Pago: repo.PagoImpago,
	}
	f.turnos[slotKey(fecha, hora)] = t
	return t
}

func TestCheckConflict(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	fecha := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	ocupante := f.agendar(uuid.New(), fecha, "10:00", repo.EstadoProgramado)

	if id, err := CheckConflict(ctx, f, fecha, "10:30", nil); err != nil || id != uuid.Nil {
		t.Fatalf("slot libre: id=%v err=%v", id, err)
	}
	id, err := CheckConflict(ctx, f, fecha, "10:00", nil)
	if !errors.Is(err, ErrSlotOcupado) {
		t.Fatalf("slot ocupado: err=%v", err)
	}
	if id != ocupante.ID {
		t.Fatalf("id del conflicto %v, quería %v", id, ocupante.ID)
	}
}

func TestCheckConflictExcludesSelf(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	fecha := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	propio := f.agendar(uuid.New(), fecha, "10:00", repo.EstadoProgramado)

	// re-guardar un turno en su propio horario no es conflicto
	if id, err := CheckConflict(ctx, f, fecha, "10:00", &propio.ID); err != nil || id != uuid.Nil {
		t.Fatalf("auto-exclusión: id=%v err=%v", id, err)
	}
	otro := uuid.New()
	if _, err := CheckConflict(ctx, f, fecha, "10:00", &otro); !errors.Is(err, ErrSlotOcupado) {
		t.Fatalf("excluir a un tercero no libera el slot: err=%v", err)
	}
}

func TestCheckConflictIgnoresCancelados(t *testing.T) {
	ctx := context.Background()
	f := newFakeRepo()
	fecha := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	f.agendar(uuid.New(), fecha, "10:00", repo.EstadoCancelado)

	if id, err := CheckConflict(ctx, f, fecha, "10:00", nil); err != nil || id != uuid.Nil {
		t.Fatalf("un turno cancelado no ocupa el slot: id=%v err=%v", id, err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 debe detectarse")
	}
	// también envuelto
	wrapped := errors.Join(errors.New("insert"), &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(wrapped) {
		t.Fatal("23505 envuelto debe detectarse")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("otro código no es violación de unicidad")
	}
	if IsUniqueViolation(errors.New("cualquier cosa")) {
		t.Fatal("un error común no es violación de unicidad")
	}
}
