package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/docs"
	"github.com/nixbug/entebus-server/internal/health"
	"github.com/nixbug/entebus-server/internal/metrics"
	"github.com/nixbug/entebus-server/internal/middleware"
	"github.com/nixbug/entebus-server/internal/platform/router"
)

type Providers struct {
	Router  router.Router
	Metrics *metrics.Metrics
	Docs    *docs.Handler
	Health  *health.Handler
}

type App struct {
	server          *http.Server
	config          *config.Config
	middlewares     []router.Middleware
	stop            context.CancelFunc
	shutdownTimeout time.Duration
	router          router.Router
	metrics         *metrics.Metrics
	docs            *docs.Handler
	health          *health.Handler
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}
}

// Handler returns the handler the server runs.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Start(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		return err
	}
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func New(cfg *config.Config, providers *Providers, middlewares []router.Middleware) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server

	a := &App{
		config:          cfg,
		router:          providers.Router,
		metrics:         providers.Metrics,
		docs:            providers.Docs,
		health:          providers.Health,
		middlewares:     middlewares,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}

	a.registerMiddlewares()
	a.setupRoutes()

	a.server = &http.Server{
		Addr: fmt.Sprintf(":%d", serverCfg.Port),
		// CORS sits outside the router so preflight requests are answered
		// before route matching.
		Handler: middleware.CORS(a.router),
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	return a
}
