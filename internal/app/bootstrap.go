package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/ferdiebergado/goexpress"
	"github.com/joho/godotenv"
	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/docs"
	"github.com/nixbug/entebus-server/internal/health"
	"github.com/nixbug/entebus-server/internal/metrics"
	"github.com/nixbug/entebus-server/internal/middleware"
	"github.com/nixbug/entebus-server/internal/pkg/logging"
	"github.com/nixbug/entebus-server/internal/platform/router"
)

const (
	envFile    = ".env"
	configFile = "config.json"
)

// ShutdownSignals are the signals that stop both the server and the setup
// commands. os.Interrupt is SIGINT.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT}

// LoadEnv reads .env outside production. A missing file is not an error.
func LoadEnv() error {
	if os.Getenv("ENV") == "production" {
		return nil
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func Run(ctx context.Context) error {
	slog.Info("Initializing...")

	if err := LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if shipper := logging.Configure(cfg, os.Stdout); shipper != nil {
		defer closeShipper(shipper, cfg.Logging.Timeout.Duration)
	}

	providers, err := setupProviders()
	if err != nil {
		return err
	}

	middlewares := []router.Middleware{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		providers.Metrics.Instrument,
		middleware.LimitBody(cfg.Server.MaxBodyBytes),
	}

	apiServer := New(cfg, providers, middlewares)
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return apiServer.Shutdown()
}

func setupProviders() (*Providers, error) {
	docsHandler, err := docs.NewHandler(config.APITitle, config.APIVersion)
	if err != nil {
		return nil, err
	}

	return &Providers{
		Router:  router.NewGoexpressRouter(),
		Metrics: metrics.New(),
		Docs:    docsHandler,
		Health:  health.NewHandler(config.APIVersion),
	}, nil
}

func closeShipper(shipper *logging.OpenObserveShipper, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := shipper.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "close log shipper: %v\n", err)
	}
}
