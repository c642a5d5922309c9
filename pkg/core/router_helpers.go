package core

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
)

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}
	_, _ = w.Write(payload)
}

func statusIf(s, def int) int {
	if s > 0 {
		return s
	}
	return def
}

// withTimeout bounds the route's context; handlers that overrun it get a 504.
func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return chimd.Timeout(d)(next).ServeHTTP
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, []byte(`{"error":"not found"}`), http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, []byte(`{"error":"method not allowed"}`), http.StatusMethodNotAllowed)
}
