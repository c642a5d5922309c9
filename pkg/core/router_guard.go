package core

import (
	"net/http"

	manifest "github.com/joeydtaylor/unologin-go/pkg/manifest"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
)

func withGuard(next http.HandlerFunc, a *auth.Middleware, g manifest.Guard) http.HandlerFunc {
	if !g.Protected() {
		return next
	}
	// If no auth middleware wired, protected routes are closed
	if a == nil {
		return func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
	}
	if len(g.UserClasses) > 0 {
		return a.RequireUserClasses(g.UserClasses...)(next).ServeHTTP
	}
	return a.RequireLogin(next).ServeHTTP
}
