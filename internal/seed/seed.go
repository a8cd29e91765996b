package seed

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/auth"
)

// Run inserts the initial usuario and a few demo pacientes when the database
// is empty. Safe to call on every boot.
func Run(ctx context.Context, db *gorm.DB) error {
	var n int
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM usuarios").Scan(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("CambiarMe123!")
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(`
		INSERT INTO usuarios (id, email, password_hash, nombre)
		VALUES (?, ?, ?, ?)
	`, uuid.New(), "admin@consultorio.local", hash, "Administración").Error; err != nil {
		return err
	}
	log.Printf("[seed] usuario inicial creado: admin@consultorio.local")

	var pacientes int
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM pacientes").Scan(&pacientes).Error; err != nil {
		return err
	}
	if pacientes > 0 {
		return nil
	}
	if err := db.WithContext(ctx).Exec(`
		INSERT INTO pacientes (id, nombre, apellido, telefono, email, numero_ficha) VALUES
		(?, 'María', 'González', '11-5555-0001', 'maria.gonzalez@example.com', '120'),
		(?, 'Juan', 'Pérez', '11-5555-0002', 'juan.perez@example.com', '121'),
		(?, 'Ana', 'Rodríguez', NULL, NULL, NULL)
	`, uuid.New(), uuid.New(), uuid.New()).Error; err != nil {
		return err
	}
	log.Printf("[seed] pacientes de demostración creados")
	return nil
}
