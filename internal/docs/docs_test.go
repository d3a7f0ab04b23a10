package docs_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nixbug/entebus-server/internal/docs"
)

func TestHandler_Spec(t *testing.T) {
	t.Parallel()

	h, err := docs.NewHandler("Entebus Server", "1.0.0")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.Spec(rec, httptest.NewRequest(http.MethodGet, docs.SpecPath, http.NoBody))

	if got, want := rec.Header().Get("Content-Type"), "application/json"; got != want {
		t.Errorf("Content-Type = %q, want: %q", got, want)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	if doc.Info.Title != "Entebus Server" || doc.Info.Version != "1.0.0" {
		t.Errorf("doc.Info = %+v", doc.Info)
	}

	if _, ok := doc.Paths["/health"]; !ok {
		t.Error("spec does not describe /health")
	}
}

func TestHandler_Docs(t *testing.T) {
	t.Parallel()

	h, err := docs.NewHandler("Entebus Server", "1.0.0")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.Docs(rec, httptest.NewRequest(http.MethodGet, docs.DocsPath, http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("rec.Code = %d, want: %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{"<title>Entebus Server - Swagger UI</title>", "openapi.json", "swagger-ui-bundle.js"} {
		if !strings.Contains(body, want) {
			t.Errorf("docs page missing %q", want)
		}
	}
}
