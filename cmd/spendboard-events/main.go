// Command spendboard-events consumes expense change events from RabbitMQ
// and logs them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"spendboard/internal/amqp"
	"spendboard/internal/cli"
	"spendboard/internal/expenses"
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
	logger := cli.SetupLogger(cfg, log.ComponentEvents)

	if !cfg.EventsEnabled() {
		return errors.New("AMQP_URL is required to consume expense events")
	}

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Close()

	events := amqp.NewEventLog(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeExpenseEvents(gctx, events.Handle)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Consumer stopped with error", log.FieldError, err)
		return err
	}
	logger.Info("Consumer stopped",
		"added", events.Count(expenses.EventAdded),
		"deleted", events.Count(expenses.EventDeleted),
		log.FieldOperation, log.OpShutdown)
	return nil
}
