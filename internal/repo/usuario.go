package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Usuario is the login principal (the clinic runs single-tenant, so there are
// no roles beyond "logged in").
type Usuario struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Nombre       string
}

func UsuarioByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*Usuario, error) {
	var u Usuario
	err := pool.QueryRow(ctx, `
		SELECT id, email, password_hash, nombre FROM usuarios WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nombre)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
