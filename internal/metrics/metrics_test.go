package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRouteLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", OtherRoute},
		{"GET /", OtherRoute},
		{"/", OtherRoute},
		{"GET /health", "/health"},
		{"/docs", "/docs"},
		{"GET /company/{id}", "/company/{id}"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := routeLabel(tt.in); got != tt.want {
				t.Errorf("routeLabel(%q) = %q, want: %q", tt.in, got, tt.want)
			}
		})
	}
}

func newTestMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func TestMetrics_Instrument(t *testing.T) {
	t.Parallel()

	m := New()
	h := m.Instrument(newTestMux())

	for _, path := range []string{"/health", "/health", "/missing", Path} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health", "200")); got != 2 {
		t.Errorf("requests{/health,200} = %v, want: %v", got, 2)
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", OtherRoute, "404")); got != 1 {
		t.Errorf("requests{other,404} = %v, want: %v", got, 1)
	}

	if got := testutil.CollectAndCount(m.requests); got != 2 {
		t.Errorf("request series = %d, want: %d", got, 2)
	}

	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("inflight = %v, want: %v", got, 0)
	}
}

func TestMetrics_Instrument_UnmatchedPathsShareSeries(t *testing.T) {
	t.Parallel()

	m := New()
	h := m.Instrument(newTestMux())

	for i := range 500 {
		path := fmt.Sprintf("/scan%d", i)
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.CollectAndCount(m.requests); got != 1 {
		t.Errorf("request series after 500 unmatched paths = %d, want: %d", got, 1)
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", OtherRoute, "404")); got != 500 {
		t.Errorf("requests{other,404} = %v, want: %v", got, 500)
	}

	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("duration series = %d, want: %d", got, 1)
	}
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.Instrument(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("rec.Code = %d, want: %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{"entebus_http_requests_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
