// Package scheduling holds the slot conflict check and the automatic
// follow-up (seguimiento) logic, behind a narrow repository interface so both
// can be tested against an in-memory fake.
package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

// Repository is the slice of the data store the scheduling logic needs.
type Repository interface {
	// TurnoAt returns the non-cancelled turno at (fecha, hora), excluding
	// excludeID when non-nil; nil, nil means the slot is free.
	TurnoAt(ctx context.Context, fecha time.Time, hora string, excludeID *uuid.UUID) (*repo.Turno, error)
	CreateTurno(ctx context.Context, pacienteID uuid.UUID, fecha time.Time, hora, estado, pago string, notas *string) (uuid.UUID, error)
}

// ErrSlotOcupado is the normalized conflict outcome: the pre-check found an
// occupying turno, or the store's unique index rejected the write.
var ErrSlotOcupado = errors.New("el horario ya está ocupado por otro turno")

// CheckConflict reports whether (fecha, hora) is occupied by a turno other
// than excludeID. It returns the conflicting turno's ID when there is one,
// uuid.Nil when the slot is free. Re-saving a turno on its own slot is never a
// conflict: pass its ID as excludeID.
func CheckConflict(ctx context.Context, r Repository, fecha time.Time, hora string, excludeID *uuid.UUID) (uuid.UUID, error) {
	t, err := r.TurnoAt(ctx, fecha, hora, excludeID)
	if err != nil {
		return uuid.Nil, err
	}
	if t == nil {
		return uuid.Nil, nil
	}
	return t.ID, ErrSlotOcupado
}

// IsUniqueViolation reports whether err is the store's (fecha, hora) unique
// index firing (PostgreSQL 23505). The pre-check in CheckConflict has a race
// window against concurrent writers; the index is the authoritative guard and
// its violation must be treated as the same "slot taken" outcome, never as an
// unrelated fatal error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PgRepository adapts a pgx pool to the Repository interface.
type PgRepository struct {
	Pool *pgxpool.Pool
}

func (r *PgRepository) TurnoAt(ctx context.Context, fecha time.Time, hora string, excludeID *uuid.UUID) (*repo.Turno, error) {
	return repo.TurnoAt(ctx, r.Pool, fecha, hora, excludeID)
}

func (r *PgRepository) CreateTurno(ctx context.Context, pacienteID uuid.UUID, fecha time.Time, hora, estado, pago string, notas *string) (uuid.UUID, error) {
	return repo.CreateTurno(ctx, r.Pool, pacienteID, fecha, hora, estado, pago, notas)
}
