// Package main implements the entry point for the photo generation API
// server, which fronts external image-generation vendors for photo
// restoration and passport-style portraits and settles each confirmed
// generation against the user's credit ledger.
package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hekuanga/ImgFactory-sub000/internal/api"
	"github.com/hekuanga/ImgFactory-sub000/internal/config"
	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/platform/imagegen"
	"github.com/hekuanga/ImgFactory-sub000/internal/platform/logger"
	"github.com/hekuanga/ImgFactory-sub000/internal/platform/postgres"
	"github.com/hekuanga/ImgFactory-sub000/internal/redact"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
	"github.com/hekuanga/ImgFactory-sub000/internal/service/auth"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const shutdownTimeout = 15 * time.Second

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		os.Exit(1)
	}
}

// application bundles the wired components the server needs to run.
type application struct {
	cfg    *config.Config
	db     *sql.DB
	router http.Handler
}

// initializeApp loads configuration and wires every component: logging,
// database, vendor callers, services, and the HTTP surface.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"log_level", cfg.Server.LogLevel,
		"vendor_max_attempts", cfg.EffectiveMaxAttempts())

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	generators, err := buildGenerators(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	creditStore := postgres.NewPostgresCreditStore(db, appLogger)

	generationService, err := service.NewGenerationService(generators, creditStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	creditService, err := service.NewCreditService(creditStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create credit service: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		GenerationService:    generationService,
		CreditService:        creditService,
		JWTService:           jwtService,
		DB:                   db,
		GenerationsPerMinute: cfg.Server.GenerationsPerMinute,
	})

	return &application{cfg: cfg, db: db, router: router}, nil
}

// openDatabase connects to Postgres and, when configured, brings the schema
// up to date with the embedded goose migrations.
func openDatabase(cfg *config.Config, appLogger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		// The generation path tolerates a missing ledger, so an
		// unreachable database at boot is a warning, not a fatal.
		appLogger.Warn("database unreachable at startup",
			"error", redact.Error(err))
		return db, nil
	}

	if cfg.Database.AutoMigrate {
		goose.SetBaseFS(embeddedMigrations)
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, fmt.Errorf("failed to set migration dialect: %w", err)
		}
		if err := goose.Up(db, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		appLogger.Info("database migrations applied")
	}

	return db, nil
}

// buildGenerators constructs one retrying caller per integrated vendor,
// all sharing the same resilience policy.
func buildGenerators(cfg *config.Config, appLogger *slog.Logger) (map[generation.Vendor]generation.Generator, error) {
	callerCfg := imagegen.CallerConfig{
		MaxAttempts:    cfg.EffectiveMaxAttempts(),
		AttemptTimeout: time.Duration(cfg.Vendors.AttemptTimeoutSeconds) * time.Second,
		RetryBaseDelay: time.Duration(cfg.Vendors.RetryBaseDelayMs) * time.Millisecond,
	}

	restoreClient, err := imagegen.NewRestoreClient(cfg.Vendors.Restore)
	if err != nil {
		return nil, fmt.Errorf("failed to create restore vendor client: %w", err)
	}
	restoreCaller, err := imagegen.NewCaller(restoreClient, callerCfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create restore vendor caller: %w", err)
	}

	portraitClient, err := imagegen.NewPortraitClient(cfg.Vendors.Portrait)
	if err != nil {
		return nil, fmt.Errorf("failed to create portrait vendor client: %w", err)
	}
	portraitCaller, err := imagegen.NewCaller(portraitClient, callerCfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create portrait vendor caller: %w", err)
	}

	return map[generation.Vendor]generation.Generator{
		generation.VendorRestore:  restoreCaller,
		generation.VendorPortrait: portraitCaller,
	}, nil
}

// run starts the HTTP server and blocks until shutdown completes.
func (app *application) run() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			slog.Warn("failed to close database", "error", redact.Error(err))
		}
	}

	slog.Info("server stopped")
	return nil
}
