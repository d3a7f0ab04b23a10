// Package router hides the HTTP router behind the small surface the server needs.
package router

import (
	"net/http"

	"github.com/ferdiebergado/goexpress"
)

type Middleware = func(next http.Handler) http.Handler

type Router interface {
	http.Handler

	Use(mw Middleware)
	Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Mount(pattern string, handler http.Handler, middlewares ...Middleware)
}

type goexpressRouter struct {
	handler *goexpress.Router
}

var _ Router = (*goexpressRouter)(nil)

func NewGoexpressRouter() Router {
	return &goexpressRouter{
		handler: goexpress.New(),
	}
}

func (r *goexpressRouter) Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.handler.Get(pattern, handler, middlewares...)
}

// Mount serves GET requests for pattern with a plain http.Handler.
func (r *goexpressRouter) Mount(pattern string, handler http.Handler, middlewares ...Middleware) {
	r.handler.Get(pattern, handler.ServeHTTP, middlewares...)
}

func (r *goexpressRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *goexpressRouter) Use(mw Middleware) {
	r.handler.Use(mw)
}
