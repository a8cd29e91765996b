// Command importador carga pacientes desde un CSV de planilla vieja
// (nombre, apellido, telefono, email, fecha_nacimiento, numero_ficha) y los
// reconcilia con la base: los ya conocidos por nombre+apellido+teléfono solo
// reciben su número de ficha; el resto se da de alta.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

func main() {
	archivo := flag.String("archivo", "", "ruta del CSV a importar")
	dryRun := flag.Bool("dry-run", false, "solo mostrar qué se haría, sin escribir")
	flag.Parse()
	if *archivo == "" {
		log.Fatal("uso: importador -archivo pacientes.csv [-dry-run]")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	f, err := os.Open(*archivo)
	if err != nil {
		log.Fatalf("abrir csv: %v", err)
	}
	defer f.Close()

	altas, fichas, saltados, err := importar(ctx, pool, f, *dryRun)
	if err != nil {
		log.Fatalf("importar: %v", err)
	}
	log.Printf("[importador] listo: %d altas, %d fichas actualizadas, %d filas saltadas", altas, fichas, saltados)
}

// Columnas esperadas en el encabezado; el orden no importa.
var columnas = []string{"nombre", "apellido", "telefono", "email", "fecha_nacimiento", "numero_ficha"}

func importar(ctx context.Context, pool *pgxpool.Pool, src io.Reader, dryRun bool) (altas, fichas, saltados int, err error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	encabezado, err := r.Read()
	if err != nil {
		return 0, 0, 0, err
	}
	idx := map[string]int{}
	for i, c := range encabezado {
		idx[strings.ToLower(strings.TrimSpace(c))] = i
	}

	campo := func(fila []string, nombre string) string {
		i, ok := idx[nombre]
		if !ok || i >= len(fila) {
			return ""
		}
		return strings.TrimSpace(fila[i])
	}

	for linea := 2; ; linea++ {
		fila, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return altas, fichas, saltados, err
		}

		nombre := campo(fila, "nombre")
		apellido := campo(fila, "apellido")
		telefono := normalizarTelefono(campo(fila, "telefono"))
		if nombre == "" || apellido == "" {
			log.Printf("[importador] línea %d saltada: nombre y apellido son obligatorios", linea)
			saltados++
			continue
		}

		existente, err := repo.PacienteByNombreTelefono(ctx, pool, nombre, apellido, telefono)
		if err != nil {
			return altas, fichas, saltados, err
		}

		ficha := campo(fila, "numero_ficha")
		if existente != nil {
			// Ya conocido: solo se rescata la ficha de papel, nunca se pisa
			// el resto de la carga hecha en la app.
			if ficha == "" || (existente.NumeroFicha != nil && *existente.NumeroFicha == ficha) {
				saltados++
				continue
			}
			if dryRun {
				log.Printf("[importador] línea %d: ficha %s para %s, %s (dry-run)", linea, ficha, apellido, nombre)
			} else if err := repo.UpdateNumeroFicha(ctx, pool, existente.ID, ficha); err != nil {
				return altas, fichas, saltados, err
			}
			fichas++
			continue
		}

		p := &repo.Paciente{Nombre: nombre, Apellido: apellido}
		if telefono != "" {
			p.Telefono = &telefono
		}
		if email := campo(fila, "email"); email != "" {
			p.Email = &email
		}
		if fn := normalizarFecha(campo(fila, "fecha_nacimiento")); fn != "" {
			p.FechaNacimiento = &fn
		}
		if ficha != "" {
			p.NumeroFicha = &ficha
		}
		if dryRun {
			log.Printf("[importador] línea %d: alta de %s, %s (dry-run)", linea, apellido, nombre)
		} else if _, err := repo.CreatePaciente(ctx, pool, p); err != nil {
			return altas, fichas, saltados, err
		}
		altas++
	}
	return altas, fichas, saltados, nil
}

// normalizarTelefono deja solo dígitos, para que "11 5555-1234" y
// "1155551234" reconcilien al mismo paciente.
func normalizarTelefono(tel string) string {
	var b strings.Builder
	for _, r := range tel {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizarFecha acepta los formatos que traen las planillas y devuelve
// siempre YYYY-MM-DD; vacío si no se pudo interpretar.
func normalizarFecha(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
