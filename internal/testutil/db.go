package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/migrate"
)

// OpenPool opens a pgx pool from DATABASE_URL, or nil when unset so
// integration tests can skip themselves.
func OpenPool(ctx context.Context) *pgxpool.Pool {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil
	}
	return pool
}

// OpenGorm opens a GORM connection from DATABASE_URL (used to run migrations
// in integration tests). Returns nil when unset or unreachable.
func OpenGorm(ctx context.Context) *gorm.DB {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil
	}
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil
	}
	return db
}

// MustMigrate walks up from the working directory looking for migrations/ and
// applies it.
func MustMigrate(ctx context.Context, db *gorm.DB) error {
	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}
	return migrate.Run(ctx, db, dir)
}

func findMigrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	cur := wd
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(cur, "migrations")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", errors.New("migrations dir not found from working directory")
}
