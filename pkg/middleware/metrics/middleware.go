package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
)

// Collect produces the HTTP middleware that records the counters/histogram.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			r = auth.WithRequestCache(r)
			startTime := time.Now()

			defer func() {
				// Skip self-scrape and any additional caller-configured paths
				if isSkipPath(r) {
					return
				}

				endTime := time.Since(startTime)

				authenticated := false
				if ca != nil {
					authenticated = ca.IsAuthenticated(r.Context())
				}

				code := strconv.Itoa(ww.Status())
				uri := normalizePath(r) // route pattern; avoid cardinality explosion
				method := r.Method

				totalHttpRequestsByAuth.WithLabelValues(strconv.FormatBool(authenticated)).Inc()
				totalHttpRequestsToUri.WithLabelValues(code, uri, method).Inc()
				totalHttpRequests.WithLabelValues(code, method).Inc()
				responseTime.Observe(endTime.Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// ObserveAuthOutcome counts one verification outcome; pass it to
// auth.Middleware.OnOutcome.
func ObserveAuthOutcome(outcome string) {
	authOutcomes.WithLabelValues(outcome).Inc()
}
