package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/gradebook/internal/http"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/aussiebroadwan/gradebook/pkg/jwtx"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application wires the store, the flows and the HTTP surfaces together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      *sqlite.Store
	hasher  *cryptox.Hasher
	metrics *metrics.Recorder

	bootstrapService    *service.BootstrapService
	registrationService *service.RegistrationService
	recordService       *service.RecordService
	gate                *service.Gate

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// The database is migrated and the default admin seeded before it returns.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gradebook",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.seed(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler returns the HTTP handler serving both surfaces.
func (app *Application) Handler() http.Handler { return app.router }

// Register runs the registration flow against the application's store.
func (app *Application) Register(ctx context.Context, in service.RegisterInput) error {
	return app.gate.Register(slogx.WithContext(ctx, app.logger), in)
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives or the server fails.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", app.cfg.ListenAddr)
	if err != nil {
		_ = app.db.Close()
		return fmt.Errorf("listen %s: %w", app.cfg.ListenAddr, err)
	}

	app.logger.Info("gradebook starting",
		"addr", ln.Addr().String(),
		"database", app.cfg.DatabaseFile,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
		return app.db.Close()
	case <-ctx.Done():
		app.logger.Info("shutdown requested")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	return app.Close()
}

// Close releases the database handle.
func (app *Application) Close() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	app.logger.Info("gradebook stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.bootstrapService = &service.BootstrapService{Store: app.db, Hasher: app.hasher}
	app.registrationService = &service.RegistrationService{
		Store:   app.db,
		Hasher:  app.hasher,
		Metrics: app.metrics,
	}
	app.recordService = &service.RecordService{Store: app.db, Metrics: app.metrics}
	app.gate = &service.Gate{
		Auth: &service.AuthService{
			Store:   app.db,
			Hasher:  app.hasher,
			Metrics: app.metrics,
		},
		Registration: app.registrationService,
	}
}

func (app *Application) seed() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	if _, err := app.bootstrapService.SeedDefaultAdmin(ctx); err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}
	return nil
}

func (app *Application) initHTTP() error {
	signer, err := jwtx.NewEphemeralEdDSASigner()
	if err != nil {
		return fmt.Errorf("failed to create surface signer: %w", err)
	}

	router, err := httpapi.NewRouter(httpapi.RouterConfig{
		Logger:        app.logger,
		Version:       BuildVersion,
		Store:         app.db,
		Gate:          app.gate,
		Records:       app.recordService,
		Metrics:       app.metrics,
		Signer:        signer,
		SecureCookies: app.cfg.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
