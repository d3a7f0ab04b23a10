package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/nixbug/entebus-server/internal/app"
	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/docs"
	"github.com/nixbug/entebus-server/internal/health"
	"github.com/nixbug/entebus-server/internal/metrics"
	"github.com/nixbug/entebus-server/internal/middleware"
	"github.com/nixbug/entebus-server/internal/pkg/message"
	"github.com/nixbug/entebus-server/internal/pkg/web"
	"github.com/nixbug/entebus-server/internal/platform/router"
)

func newTestApp(t *testing.T) (*app.App, *metrics.Metrics) {
	t.Helper()

	docsHandler, err := docs.NewHandler(config.APITitle, config.APIVersion)
	if err != nil {
		t.Fatalf("docs.NewHandler() = %v, want: nil", err)
	}

	m := metrics.New()
	providers := &app.Providers{
		Router:  router.NewGoexpressRouter(),
		Metrics: m,
		Docs:    docsHandler,
		Health:  health.NewHandler(config.APIVersion),
	}

	cfg := config.Default()
	cfg.Server.Port = 0

	mws := []router.Middleware{
		middleware.InjectWriter,
		middleware.LogRequest,
		m.Instrument,
	}

	return app.New(cfg, providers, mws), m
}

func TestApp_Routes(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	handler := a.Handler()

	tests := []struct {
		name        string
		path        string
		contentType string
		contains    string
	}{
		{"health", health.Path, "application/json", `"status":"OK"`},
		{"api description", docs.SpecPath, "application/json", `"openapi"`},
		{"docs page", docs.DocsPath, "text/html", "openapi.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if got, want := rec.Code, http.StatusOK; got != want {
				t.Errorf("GET %s status = %d, want: %d", tt.path, got, want)
			}

			if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, tt.contentType) {
				t.Errorf("GET %s Content-Type = %q, want prefix: %q", tt.path, got, tt.contentType)
			}

			if got := rec.Body.String(); !strings.Contains(got, tt.contains) {
				t.Errorf("GET %s body = %q, want to contain: %q", tt.path, got, tt.contains)
			}

			if got, want := rec.Header().Get(middleware.HeaderAllowOrigin), "*"; got != want {
				t.Errorf("GET %s %s = %q, want: %q", tt.path, middleware.HeaderAllowOrigin, got, want)
			}
		})
	}
}

func TestApp_Health(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, health.Path, nil))

	var got health.Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode health response: %v", err)
	}

	want := health.Status{Status: "OK", Version: config.APIVersion}
	if got != want {
		t.Errorf("health = %+v, want: %+v", got, want)
	}
}

func TestApp_Metrics(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	handler := a.Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, health.Path, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, metrics.Path, nil))

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("GET %s status = %d, want: %d", metrics.Path, got, want)
	}

	body := rec.Body.String()
	want := `entebus_http_requests_total{method="GET",path="/health",status="200"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics body does not contain %q", want)
	}
}

func TestApp_Preflight(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, health.Path, nil)
	req.Header.Set(middleware.HeaderOrigin, "https://app.entebus.com")
	req.Header.Set(middleware.HeaderRequestMethod, http.MethodGet)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusNoContent; got != want {
		t.Errorf("OPTIONS status = %d, want: %d", got, want)
	}

	if got, want := rec.Header().Get(middleware.HeaderAllowOrigin), "https://app.entebus.com"; got != want {
		t.Errorf("%s = %q, want: %q", middleware.HeaderAllowOrigin, got, want)
	}
}

func TestApp_StartShutdown(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Start(ctx); err != nil {
		t.Errorf("a.Start() = %v, want: nil", err)
	}

	if err := a.Shutdown(); err != nil {
		t.Errorf("a.Shutdown() = %v, want: nil", err)
	}
}

func TestApp_NotFound(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes/42", nil))

	if got, want := rec.Code, http.StatusNotFound; got != want {
		t.Errorf("GET /routes/42 status = %d, want: %d", got, want)
	}

	var got web.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode not found response: %v", err)
	}

	if got.Message != message.NotFound {
		t.Errorf("message = %q, want: %q", got.Message, message.NotFound)
	}
}

func TestShutdownSignals(t *testing.T) {
	t.Parallel()

	seen := make(map[os.Signal]bool)
	for _, sig := range app.ShutdownSignals {
		if seen[sig] {
			t.Errorf("ShutdownSignals lists %v twice", sig)
		}
		seen[sig] = true
	}

	for _, want := range []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT} {
		if !seen[want] {
			t.Errorf("ShutdownSignals = %v, want: %v included", app.ShutdownSignals, want)
		}
	}
}
