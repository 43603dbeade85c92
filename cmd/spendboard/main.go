// Command spendboard serves the expense dashboard over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendboard/internal/cli"
	apphttp "spendboard/internal/http"
	"spendboard/internal/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	app, err := cli.Bootstrap(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := apphttp.NewServer(app.Service, apphttp.Options{
		Addr:               ":" + cfg.Port,
		Currency:           cfg.Currency,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              app.Ready,
		Logger:             logger,
	})
	if err != nil {
		return err
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
	return nil
}
