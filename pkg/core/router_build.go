package core

import (
	"net/http"
	"strings"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	manifest "github.com/joeydtaylor/unologin-go/pkg/manifest"
	hlogger "github.com/joeydtaylor/unologin-go/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/unologin-go/pkg/middleware/metrics"
)

func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// access log and metrics read the identity ParseLogin resolves per route
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	r.Use(hmetrics.Collect(d.Auth))

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	for _, rt := range cfg.Routes {
		if rt.LogBody {
			hlogger.AddBodyLogPaths(rt.Path)
		}

		h := wrapRoute(rt, d)
		if rt.Policy.TimeoutMS > 0 {
			t := time.Duration(rt.Policy.TimeoutMS) * time.Millisecond
			h = withTimeout(h, t)
		}
		h = withGuard(h, d.Auth, rt.Guard)
		if d.Auth != nil && parsesLogin(rt.Handler.Type) {
			h = d.Auth.ParseLogin(h).ServeHTTP
		}

		switch strings.ToUpper(rt.Method) {
		case http.MethodGet:
			r.Get(rt.Path, h)
		case http.MethodPost:
			r.Post(rt.Path, h)
		case http.MethodPut:
			r.Put(rt.Path, h)
		case http.MethodDelete:
			r.Delete(rt.Path, h)
		default:
			r.Handle(rt.Method, rt.Path, h)
		}
	}
	return r.Mux()
}
