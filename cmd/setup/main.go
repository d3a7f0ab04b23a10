package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nixbug/entebus-server/internal/app"
	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/pkg/logging"
	"github.com/nixbug/entebus-server/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), app.ShutdownSignals...)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	if err := app.LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.Load("config.json")
	if err != nil {
		return err
	}

	if shipper := logging.Configure(cfg, os.Stderr); shipper != nil {
		defer func() {
			if closeErr := shipper.Close(context.WithoutCancel(ctx)); closeErr != nil {
				fmt.Fprintf(os.Stderr, "close log shipper: %v\n", closeErr)
			}
		}()
	}

	backend := setup.NewBackend(cfg)
	defer func() {
		if closeErr := backend.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	runner := setup.NewRunner(backend, os.Stdout, cfg.Migration.Dir)
	return runner.Cmd().Run(ctx, os.Args)
}
