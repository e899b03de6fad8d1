package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gigboard/marketplace-api/internal/config"
	"github.com/gigboard/marketplace-api/internal/handler"
	"github.com/gigboard/marketplace-api/internal/logging"
	"github.com/gigboard/marketplace-api/internal/middleware"
	"github.com/gigboard/marketplace-api/internal/repository"
	"github.com/gigboard/marketplace-api/internal/service/settlement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("marketplace-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	profiles := repository.NewProfileRepository(db)
	contracts := repository.NewContractRepository(db)
	jobs := repository.NewJobRepository(db)
	settlements := repository.NewSettlementRepository(db)
	reports := repository.NewReportRepository(db)

	engine := settlement.NewService(profiles, jobs, settlements, db, cfg.DepositCapPct)

	router := newRouter(
		profiles,
		handler.NewContractHandler(contracts),
		handler.NewJobHandler(jobs, engine),
		handler.NewBalanceHandler(engine),
		handler.NewAdminHandler(reports),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newRouter(
	profiles *repository.ProfileRepository,
	contractH *handler.ContractHandler,
	jobH *handler.JobHandler,
	balanceH *handler.BalanceHandler,
	adminH *handler.AdminHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ResolveProfile(profiles))

		r.Get("/contracts/{id}", contractH.Get)
		r.Get("/contracts", contractH.List)

		r.Get("/jobs/unpaid", jobH.ListUnpaid)
		r.Post("/jobs/{job_id}/pay", jobH.Pay)

		r.Post("/balances/deposit/{userId}", balanceH.Deposit)

		r.Get("/admin/best-profession", adminH.BestProfession)
		r.Get("/admin/best-clients", adminH.BestClients)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var err error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, dialErr := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if dialErr == nil {
			return db, nil
		}
		err = dialErr
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
