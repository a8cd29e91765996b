package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Estados de un turno. Un turno cancelado libera su slot (índice único parcial
// en la base excluye cancelados).
const (
	EstadoProgramado = "programado"
	EstadoCompletado = "completado"
	EstadoCancelado  = "cancelado"
)

// Estados de pago.
const (
	PagoPagado = "pagado"
	PagoImpago = "impago"
)

// Turno is a scheduled visit: one (fecha, hora) slot for one paciente.
// Hora is a catalog time string ("HH:MM"); PostgreSQL TIME comes back as
// string from the driver and is normalized on scan.
type Turno struct {
	ID         uuid.UUID
	PacienteID uuid.UUID
	Fecha      time.Time
	Hora       string
	Estado     string
	Pago       string
	Notas      *string
}

// TurnoConPaciente is a turno joined with the paciente name for agenda display.
type TurnoConPaciente struct {
	Turno
	Nombre   string
	Apellido string
}

// HoraHHMM normalizes a DB time string ("HH:MM:SS" or "HH:MM") to "HH:MM".
func HoraHHMM(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

func CreateTurno(ctx context.Context, pool *pgxpool.Pool, pacienteID uuid.UUID, fecha time.Time, hora, estado, pago string, notas *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO turnos (paciente_id, fecha, hora, estado, pago, notas)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, pacienteID, fecha, hora, estado, pago, notas).Scan(&id)
	return id, err
}

func TurnoByID(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (*Turno, error) {
	var t Turno
	var hora string
	err := pool.QueryRow(ctx, `
		SELECT id, paciente_id, fecha, hora::text, estado, pago, notas
		FROM turnos WHERE id = $1
	`, id).Scan(&t.ID, &t.PacienteID, &t.Fecha, &hora, &t.Estado, &t.Pago, &t.Notas)
	if err != nil {
		return nil, err
	}
	t.Hora = HoraHHMM(hora)
	return &t, nil
}

// TurnoAt returns the non-cancelled turno occupying (fecha, hora), excluding
// excludeID when non-nil (so an edited turno does not conflict with itself).
// Returns nil, nil when the slot is free.
func TurnoAt(ctx context.Context, pool *pgxpool.Pool, fecha time.Time, hora string, excludeID *uuid.UUID) (*Turno, error) {
	q := `
		SELECT id, paciente_id, fecha, hora::text, estado, pago, notas
		FROM turnos
		WHERE fecha = $1 AND hora = $2 AND estado <> $3
	`
	args := []interface{}{fecha, hora, EstadoCancelado}
	if excludeID != nil {
		q += ` AND id <> $4`
		args = append(args, *excludeID)
	}
	var t Turno
	var horaDB string
	err := pool.QueryRow(ctx, q, args...).Scan(&t.ID, &t.PacienteID, &t.Fecha, &horaDB, &t.Estado, &t.Pago, &t.Notas)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Hora = HoraHHMM(horaDB)
	return &t, nil
}

// TurnosByFecha returns the day's turnos (all estados) ordered by hora.
func TurnosByFecha(ctx context.Context, pool *pgxpool.Pool, fecha time.Time) ([]TurnoConPaciente, error) {
	return TurnosByRango(ctx, pool, fecha, fecha)
}

// TurnosByRango returns turnos with fecha in [desde, hasta], ordered by fecha, hora.
func TurnosByRango(ctx context.Context, pool *pgxpool.Pool, desde, hasta time.Time) ([]TurnoConPaciente, error) {
	rows, err := pool.Query(ctx, `
		SELECT t.id, t.paciente_id, t.fecha, t.hora::text, t.estado, t.pago, t.notas,
		       COALESCE(p.nombre, ''), COALESCE(p.apellido, '')
		FROM turnos t
		LEFT JOIN pacientes p ON p.id = t.paciente_id
		WHERE t.fecha >= $1 AND t.fecha <= $2
		ORDER BY t.fecha, t.hora
	`, desde, hasta)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []TurnoConPaciente
	for rows.Next() {
		var t TurnoConPaciente
		var hora string
		if err := rows.Scan(&t.ID, &t.PacienteID, &t.Fecha, &hora, &t.Estado, &t.Pago, &t.Notas, &t.Nombre, &t.Apellido); err != nil {
			return nil, err
		}
		t.Hora = HoraHHMM(hora)
		list = append(list, t)
	}
	return list, rows.Err()
}

// UpdateTurno updates only the non-nil fields. Moving fecha/hora frees the old
// slot implicitly because the row is updated in place, never duplicated.
func UpdateTurno(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, fecha *time.Time, hora, estado, pago, notas *string) error {
	q := `UPDATE turnos SET actualizado_en = now()`
	args := []interface{}{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		q += fmt.Sprintf(`, %s = $%d`, col, len(args))
	}
	if fecha != nil {
		add("fecha", *fecha)
	}
	if hora != nil {
		add("hora", *hora)
	}
	if estado != nil {
		add("estado", *estado)
	}
	if pago != nil {
		add("pago", *pago)
	}
	if notas != nil {
		add("notas", *notas)
	}
	args = append(args, id)
	q += fmt.Sprintf(` WHERE id = $%d`, len(args))
	ct, err := pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func DeleteTurno(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	ct, err := pool.Exec(ctx, `DELETE FROM turnos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TurnosCountByFechas returns, for each date in [desde, hasta], how many
// non-cancelled turnos it has. Used by the month view.
func TurnosCountByFechas(ctx context.Context, pool *pgxpool.Pool, desde, hasta time.Time) (map[string]int, error) {
	rows, err := pool.Query(ctx, `
		SELECT fecha, COUNT(*) FROM turnos
		WHERE fecha >= $1 AND fecha <= $2 AND estado <> $3
		GROUP BY fecha
	`, desde, hasta, EstadoCancelado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var fecha time.Time
		var n int
		if err := rows.Scan(&fecha, &n); err != nil {
			return nil, err
		}
		out[fecha.Format("2006-01-02")] = n
	}
	return out, rows.Err()
}
