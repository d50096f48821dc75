package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/controlpin/internal/controlpin/http"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/service"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/memory"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/postgres"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/redis"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/sqlite"
	"github.com/aussiebroadwan/controlpin/pkg/cryptox"
	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"
	"github.com/benbjohnson/clock"
	"golang.org/x/sync/semaphore"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the control pin service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  clock.Clock

	// Core dependencies
	db       store.Store
	quotas   store.Quotas
	verifier jwtx.Verifier
	pepper   []byte

	// Services
	accessCodeService   *service.AccessCodeService
	admissionControl    *service.AdmissionControl
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:   cfg,
		clock: clock.New(),
		logger: slogx.New(slogx.Config{
			Service: "controlpin",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}

	if err := app.initQuotas(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initSecrets(); err != nil {
		_ = app.quotas.Close()
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("controlpin starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"quotas", app.cfg.QuotaBackend,
		"actions", app.cfg.VerifyActions,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			app.housekeepingService.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down controlpin...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.quotas.Close(); err != nil {
		app.logger.Error("error closing quota backend", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("controlpin stopped")
	return nil
}

// Handler exposes the routed handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initStore opens the configured code store and applies migrations
func (app *Application) initStore(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.StoreDriver {
	case StorePostgres:
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	case StoreMemory:
		app.logger.Warn("using in-memory code store, issued codes are lost on restart")
		db = memory.NewStore()
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// initQuotas connects the admission control backend
func (app *Application) initQuotas(ctx context.Context) error {
	if app.cfg.QuotaBackend != QuotaRedis {
		app.quotas = memory.NewQuotas()
		return nil
	}

	q, err := redis.NewQuotas(ctx, redis.Options{
		Addrs:    app.cfg.RedisAddrs,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize quota backend: %w", err)
	}
	app.quotas = q

	app.logger.Info("redis quota backend connected", "addrs", app.cfg.RedisAddrs)
	return nil
}

// initSecrets loads the code hashing pepper and the admin token verifier
func (app *Application) initSecrets() error {
	if app.cfg.Pepper != "" {
		app.pepper = cryptox.DecodePepper(app.cfg.Pepper)
	} else {
		pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
		if err != nil {
			return fmt.Errorf("failed to load pepper: %w", err)
		}
		app.pepper = pepper
	}

	verifier, err := jwtx.NewHS256Verifier([]byte(app.cfg.AdminSecret), app.cfg.Issuer, app.clock.Now)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.verifier = verifier

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.accessCodeService = &service.AccessCodeService{
		Store:  app.db,
		Hasher: cryptox.CodeHasher{Pepper: app.pepper},
		Clock:  app.clock,
		TTL:    app.cfg.CodeTTL,
		Checks: semaphore.NewWeighted(int64(app.cfg.MaxConcurrentChecks)),
	}

	app.admissionControl = &service.AdmissionControl{
		Quotas:      app.quotas,
		Clock:       app.clock,
		Window:      app.cfg.QuotaWindow,
		MaxAttempts: app.cfg.QuotaMaxAttempts,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.admissionControl,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.clock,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.quotas,
		app.logger,
	)

	router.Actions = app.cfg.VerifyActions
	router.TrustProxy = app.cfg.TrustProxy
	router.AccessCodeService = app.accessCodeService
	router.AdmissionControl = app.admissionControl
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
