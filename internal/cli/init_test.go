package cli

import (
	"context"
	"strings"
	"testing"

	"spendboard/internal/config"
	"spendboard/internal/log"
)

func TestBootstrap(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		dsn     string
		seed    bool
		want    int
	}{
		{"memory seeded", config.BackendMemory, "", true, 8},
		{"memory empty", config.BackendMemory, "", false, 0},
		{"sqlite seeded", config.BackendSQLite, "file:cli_bootstrap_seeded?mode=memory&cache=shared", true, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := &config.Config{DataBackend: tt.backend, SQLiteDSN: tt.dsn, SeedSampleData: tt.seed}
			app, err := Bootstrap(ctx, cfg, log.Discard(), true)
			if err != nil {
				t.Fatalf("Bootstrap: %v", err)
			}
			defer app.Close()

			if err := app.Ready(ctx); err != nil {
				t.Fatalf("Ready: %v", err)
			}
			items, err := app.Store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(items) != tt.want {
				t.Fatalf("have %d expenses, want %d", len(items), tt.want)
			}
			if app.Events != nil {
				t.Fatal("events must stay disabled without AMQP_URL")
			}
		})
	}
}

func TestBootstrapRejectsUnknownBackend(t *testing.T) {
	_, err := Bootstrap(context.Background(), &config.Config{DataBackend: "sheets"}, log.Discard(), false)
	if err == nil || !strings.Contains(err.Error(), "unknown data backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, log.ComponentCLI)
	if logger.Component() != log.ComponentCLI {
		t.Fatalf("component = %q", logger.Component())
	}
	if !logger.Enabled(context.Background(), -4) {
		t.Fatal("debug level should be enabled")
	}
}
