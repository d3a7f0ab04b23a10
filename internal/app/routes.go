package app

import (
	"fmt"
	"net/http"

	"github.com/nixbug/entebus-server/internal/docs"
	"github.com/nixbug/entebus-server/internal/health"
	"github.com/nixbug/entebus-server/internal/metrics"
	"github.com/nixbug/entebus-server/internal/pkg/message"
	"github.com/nixbug/entebus-server/internal/pkg/web"
)

func (a *App) setupRoutes() {
	a.router.Get(health.Path, a.health.Check)
	a.router.Get(docs.SpecPath, a.docs.Spec)
	a.router.Get(docs.DocsPath, a.docs.Docs)
	a.router.Mount(metrics.Path, a.metrics.Handler())

	// "/" matches every GET path no other route claims.
	a.router.Get("/", notFound)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	web.Fail(w, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path), message.NotFound, nil)
}
