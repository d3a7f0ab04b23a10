package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nixbug/entebus-server/internal/middleware"
)

func TestMiddleware_CORS(t *testing.T) {
	t.Parallel()

	const origin = "http://localhost:3000"

	tests := []struct {
		name, method, origin string
		requestHeaders       map[string]string
		code                 int
		headers              map[string]string
	}{
		{
			name:   "GET with origin",
			method: http.MethodGet,
			origin: origin,
			code:   http.StatusOK,
			headers: map[string]string{
				middleware.HeaderAllowOrigin: origin,
				middleware.HeaderAllowCreds:  "true",
			},
		},
		{
			name:   "GET without origin",
			method: http.MethodGet,
			code:   http.StatusOK,
			headers: map[string]string{
				middleware.HeaderAllowOrigin: "*",
				middleware.HeaderAllowCreds:  "",
			},
		},
		{
			name:   "preflight",
			method: http.MethodOptions,
			origin: origin,
			requestHeaders: map[string]string{
				middleware.HeaderRequestMethod: http.MethodPost,
				middleware.HeaderRequestHeader: "Authorization, Content-Type",
			},
			code: http.StatusNoContent,
			headers: map[string]string{
				middleware.HeaderAllowOrigin:  origin,
				middleware.HeaderAllowMethods: middleware.AllowedMethods,
				middleware.HeaderAllowHeaders: "Authorization, Content-Type",
			},
		},
		{
			name:   "plain OPTIONS reaches handler",
			method: http.MethodOptions,
			origin: origin,
			code:   http.StatusOK,
			headers: map[string]string{
				middleware.HeaderAllowMethods: "",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, "/health", http.NoBody)
			if tc.origin != "" {
				req.Header.Set(middleware.HeaderOrigin, tc.origin)
			}
			for k, v := range tc.requestHeaders {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			middleware.CORS(handler).ServeHTTP(rec, req)

			if gotCode, wantCode := rec.Code, tc.code; gotCode != wantCode {
				t.Errorf("rec.Code = %d, want: %d", gotCode, wantCode)
			}

			for header, want := range tc.headers {
				if got := rec.Header().Get(header); got != want {
					t.Errorf("rec.Header().Get(%q) = %q, want: %q", header, got, want)
				}
			}
		})
	}
}
