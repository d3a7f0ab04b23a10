// Package docs serves the API description and an interactive page for it.
package docs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
)

const (
	SpecPath = "/openapi.json"
	DocsPath = "/docs"
)

var (
	//go:embed openapi.json
	spec []byte

	//go:embed docs.html
	page string
)

type Handler struct {
	spec []byte
	page []byte
}

// NewHandler renders the docs page once and stamps title and version into
// the API description.
func NewHandler(title, version string) (*Handler, error) {
	var doc map[string]any
	if err := json.Unmarshal(spec, &doc); err != nil {
		return nil, fmt.Errorf("decode api description: %w", err)
	}

	info, _ := doc["info"].(map[string]any)
	if info == nil {
		info = make(map[string]any)
		doc["info"] = info
	}
	info["title"] = title
	info["version"] = version

	specJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode api description: %w", err)
	}

	tmpl, err := template.New("docs").Parse(page)
	if err != nil {
		return nil, fmt.Errorf("parse docs page: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Title, SpecURL string }{title, SpecPath}); err != nil {
		return nil, fmt.Errorf("render docs page: %w", err)
	}

	return &Handler{spec: specJSON, page: buf.Bytes()}, nil
}

func (h *Handler) Spec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec)
}

func (h *Handler) Docs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}
