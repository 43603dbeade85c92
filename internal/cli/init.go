// Package cli holds the start-up steps shared by the commands under cmd/.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendboard/internal/accounts"
	"spendboard/internal/amqp"
	"spendboard/internal/config"
	"spendboard/internal/expenses"
	"spendboard/internal/expenses/memory"
	"spendboard/internal/log"
	"spendboard/internal/services"
	"spendboard/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default. An invalid level falls back to info.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	lc := log.DefaultConfig()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		lc.Level = level
	}
	lc.Format = cfg.LogFormat
	lc.Component = component
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Validation failures are printed and the process exits.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil {
			logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		}
	}()
	return ctx, stop
}

// App is the wired dashboard: store, service and the resources behind
// them.
type App struct {
	Store   *expenses.Store
	Service *services.DashboardService
	Events  *amqp.Client

	repo    expenses.Repository
	closers []func() error
}

// Ready reports whether the backing repository is reachable.
func (a *App) Ready(ctx context.Context) error {
	if p, ok := a.repo.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// Bootstrap builds the repository selected by cfg, seeds it, and wires the
// store and service. With publish set and AMQP configured, store events
// are forwarded to the broker; a broker that cannot be reached is logged
// and skipped.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger, publish bool) (*App, error) {
	app := &App{}

	repo, err := buildRepository(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.repo = repo
	if c, ok := repo.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}

	if cfg.SeedSampleData {
		if err := expenses.Seed(ctx, repo, expenses.SampleExpenses()); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed sample expenses: %w", err)
		}
	}

	app.Store = expenses.NewStore(repo, expenses.WithLogger(logger))
	app.Service = services.NewDashboardService(app.Store, accounts.Default(), services.WithLogger(logger))

	if publish && cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Expense events disabled: broker unreachable", log.FieldError, err)
		} else {
			app.Events = client
			cancel := app.Store.Subscribe(amqp.NewNotifier(client, logger))
			app.closers = append(app.closers, client.Close, func() error { cancel(); return nil })
		}
	}

	logger.Info("Dashboard ready",
		log.FieldBackend, cfg.DataBackend,
		"seeded", cfg.SeedSampleData,
		"events", app.Events != nil)
	return app, nil
}

func buildRepository(cfg *config.Config, logger *log.Logger) (expenses.Repository, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		return repo, nil
	case config.BackendMemory, "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
