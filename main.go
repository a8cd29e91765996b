package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/api"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/cache"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/middleware"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/migrate"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/seed"
)

func main() {
	cfg := config.Load()
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("config postgres: %v", err)
		}
		if cfg.DBMaxConns > 0 {
			poolConfig.MaxConns = int32(cfg.DBMaxConns)
		}
		if cfg.DBMinConns > 0 {
			poolConfig.MinConns = int32(cfg.DBMinConns)
		}
		if cfg.DBMaxConnLifetime > 0 {
			poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
		}
		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("conexión postgres: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("ping postgres: %v", err)
		}

		// Migraciones y seed van por gorm; el resto del proceso habla pgx.
		gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			log.Fatalf("gorm postgres: %v", err)
		}
		if err := migrate.Run(context.Background(), gdb, "migrations"); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		if err := seed.Run(context.Background(), gdb); err != nil {
			log.Printf("seed (ignorado si ya aplicado): %v", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no database"}`))
			return
		}
		if err := pool.Ping(context.Background()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	h := &api.Handler{Pool: pool, Cfg: cfg, Cache: cache.New(30 * time.Second)}

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))
	protected.HandleFunc("/agenda/dia", h.AgendaDia).Methods(http.MethodGet)
	protected.HandleFunc("/agenda/mes", h.AgendaMes).Methods(http.MethodGet)
	protected.HandleFunc("/turnos", h.ListTurnos).Methods(http.MethodGet)
	protected.HandleFunc("/turnos", h.CreateTurno).Methods(http.MethodPost)
	protected.HandleFunc("/turnos/{id}", h.PatchTurno).Methods(http.MethodPatch)
	protected.HandleFunc("/turnos/{id}", h.DeleteTurno).Methods(http.MethodDelete)
	protected.HandleFunc("/pacientes", h.ListPacientes).Methods(http.MethodGet)
	protected.HandleFunc("/pacientes", h.CreatePaciente).Methods(http.MethodPost)
	protected.HandleFunc("/pacientes/{pacienteId}", h.GetPaciente).Methods(http.MethodGet)
	protected.HandleFunc("/pacientes/{pacienteId}", h.UpdatePaciente).Methods(http.MethodPut)
	protected.HandleFunc("/pacientes/{pacienteId}", h.DeletePaciente).Methods(http.MethodDelete)
	protected.HandleFunc("/pacientes/{pacienteId}/antecedentes", h.GetAntecedentes).Methods(http.MethodGet)
	protected.HandleFunc("/pacientes/{pacienteId}/antecedentes", h.PutAntecedentes).Methods(http.MethodPut)
	protected.HandleFunc("/export/pacientes.csv", h.ExportPacientesCSV).Methods(http.MethodGet)
	protected.HandleFunc("/export/pacientes.json", h.ExportPacientesJSON).Methods(http.MethodGet)
	protected.HandleFunc("/export/turnos.pdf", h.ExportTurnosPDF).Methods(http.MethodGet)

	chain := middleware.Recover(middleware.RequestID(middleware.Timeout(cfg.RequestTimeoutSec)(middleware.CORS(cfg.CORSOrigins)(middleware.Gzip(r)))))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("backend listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("backend stopped")
}
