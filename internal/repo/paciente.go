package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Paciente is the patient record. Nombre and apellido are required; everything
// else is optional. DNI is stored encrypted at rest (AES-GCM with versioned
// keys) plus a SHA-256 hash column for equality lookups, never in clear.
// Antecedentes is the raw JSONB payload of the medical-record form.
type Paciente struct {
	ID              uuid.UUID
	Nombre          string
	Apellido        string
	Telefono        *string
	Email           *string
	FechaNacimiento *string
	Direccion       *string
	Notas           *string
	NumeroFicha     *string
	Antecedentes    []byte
	DNIEncrypted    []byte
	DNINonce        []byte
	DNIKeyVersion   *string
	DNIHash         *string
}

const pacienteCols = `
	id, nombre, apellido, telefono, email, fecha_nacimiento::text, direccion,
	notas, numero_ficha, antecedentes, dni_encrypted, dni_nonce,
	dni_key_version, dni_hash
`

func scanPaciente(row pgx.Row) (*Paciente, error) {
	var p Paciente
	err := row.Scan(&p.ID, &p.Nombre, &p.Apellido, &p.Telefono, &p.Email,
		&p.FechaNacimiento, &p.Direccion, &p.Notas, &p.NumeroFicha,
		&p.Antecedentes, &p.DNIEncrypted, &p.DNINonce, &p.DNIKeyVersion, &p.DNIHash)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func Pacientes(ctx context.Context, pool *pgxpool.Pool) ([]Paciente, error) {
	return PacientesPaginated(ctx, pool, 0, 0)
}

// PacientesPaginated returns pacientes ordered by apellido, nombre. If limit
// is 0, no limit is applied (all rows).
func PacientesPaginated(ctx context.Context, pool *pgxpool.Pool, limit, offset int) ([]Paciente, error) {
	q := `SELECT ` + pacienteCols + ` FROM pacientes ORDER BY apellido, nombre`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Paciente
	for rows.Next() {
		p, err := scanPaciente(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func PacientesCount(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`).Scan(&n)
	return n, err
}

func PacienteByID(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (*Paciente, error) {
	return scanPaciente(pool.QueryRow(ctx, `SELECT `+pacienteCols+` FROM pacientes WHERE id = $1`, id))
}

// CreatePaciente inserts the full record, DNI columns included, in a single
// statement so a new paciente is never half-written.
func CreatePaciente(ctx context.Context, pool *pgxpool.Pool, p *Paciente) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO pacientes (nombre, apellido, telefono, email, fecha_nacimiento, direccion, notas, numero_ficha,
		                       dni_encrypted, dni_nonce, dni_key_version, dni_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id
	`, p.Nombre, p.Apellido, p.Telefono, p.Email, p.FechaNacimiento, p.Direccion, p.Notas, p.NumeroFicha,
		p.DNIEncrypted, p.DNINonce, p.DNIKeyVersion, p.DNIHash).Scan(&id)
	return id, err
}

// UpdatePaciente overwrites every editable field of the patient form (the form
// submits the full record, not a partial patch). Antecedentes and DNI fields
// are updated through their own operations.
func UpdatePaciente(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, p *Paciente) error {
	ct, err := pool.Exec(ctx, `
		UPDATE pacientes
		SET nombre = $1, apellido = $2, telefono = $3, email = $4,
		    fecha_nacimiento = $5, direccion = $6, notas = $7, numero_ficha = $8,
		    actualizado_en = now()
		WHERE id = $9
	`, p.Nombre, p.Apellido, p.Telefono, p.Email, p.FechaNacimiento, p.Direccion, p.Notas, p.NumeroFicha, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateAntecedentes overwrites only the medical-record payload.
func UpdateAntecedentes(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, antecedentes []byte) error {
	ct, err := pool.Exec(ctx, `
		UPDATE pacientes SET antecedentes = $1, actualizado_en = now() WHERE id = $2
	`, antecedentes, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func SetPacienteDNI(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, enc, nonce []byte, keyVersion, hash string) error {
	ct, err := pool.Exec(ctx, `
		UPDATE pacientes
		SET dni_encrypted = $1, dni_nonce = $2, dni_key_version = $3, dni_hash = $4, actualizado_en = now()
		WHERE id = $5
	`, enc, nonce, keyVersion, hash, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func ClearPacienteDNI(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	ct, err := pool.Exec(ctx, `
		UPDATE pacientes
		SET dni_encrypted = NULL, dni_nonce = NULL, dni_key_version = NULL, dni_hash = NULL, actualizado_en = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PacienteByNombreTelefono finds a patient by exact nombre+apellido and
// normalized phone. Used by the import/reconciliation tool to dedupe.
// Returns nil, nil when there is no match.
func PacienteByNombreTelefono(ctx context.Context, pool *pgxpool.Pool, nombre, apellido, telefono string) (*Paciente, error) {
	p, err := scanPaciente(pool.QueryRow(ctx, `
		SELECT `+pacienteCols+` FROM pacientes
		WHERE lower(nombre) = lower($1) AND lower(apellido) = lower($2) AND COALESCE(telefono, '') = $3
	`, nombre, apellido, telefono))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UpdateNumeroFicha sets only the clinic record number.
func UpdateNumeroFicha(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, ficha string) error {
	_, err := pool.Exec(ctx, `UPDATE pacientes SET numero_ficha = $1, actualizado_en = now() WHERE id = $2`, ficha, id)
	return err
}

// DeletePaciente removes the patient. Its turnos go with it via the FK's
// ON DELETE CASCADE; the application does not delete them one by one.
func DeletePaciente(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	ct, err := pool.Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
