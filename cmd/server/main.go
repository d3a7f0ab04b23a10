package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nixbug/entebus-server/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), app.ShutdownSignals...)
	defer stop()

	slog.Info("Starting server...")
	if err := app.Run(ctx); err != nil {
		slog.Error("Application failed to start.", "reason", err)
		stop()
		os.Exit(1)
	}
	slog.Info("Server shutdown gracefully.")
}
