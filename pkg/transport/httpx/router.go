// Package httpx hides the router implementation behind a small interface so
// the route builder can be exercised without chi specifics.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is what the manifest route builder needs from a mux.
type Router interface {
	Use(mw ...func(http.Handler) http.Handler)
	Handle(method, path string, h http.Handler)
	Get(path string, h http.Handler)
	Post(path string, h http.Handler)
	Put(path string, h http.Handler)
	Delete(path string, h http.Handler)
	NotFound(h http.HandlerFunc)
	MethodNotAllowed(h http.HandlerFunc)
	Mux() http.Handler
}

type chiRouter struct{ mux *chi.Mux }

// NewChi returns a Router backed by chi/v5.
func NewChi() Router { return &chiRouter{mux: chi.NewRouter()} }

func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.mux.Use(mw...) }
func (c *chiRouter) Handle(method, path string, h http.Handler) { c.mux.Method(method, path, h) }
func (c *chiRouter) Get(path string, h http.Handler)            { c.Handle(http.MethodGet, path, h) }
func (c *chiRouter) Post(path string, h http.Handler)           { c.Handle(http.MethodPost, path, h) }
func (c *chiRouter) Put(path string, h http.Handler)            { c.Handle(http.MethodPut, path, h) }
func (c *chiRouter) Delete(path string, h http.Handler)         { c.Handle(http.MethodDelete, path, h) }
func (c *chiRouter) NotFound(h http.HandlerFunc)                { c.mux.NotFound(h) }
func (c *chiRouter) MethodNotAllowed(h http.HandlerFunc)        { c.mux.MethodNotAllowed(h) }
func (c *chiRouter) Mux() http.Handler                          { return c.mux }
