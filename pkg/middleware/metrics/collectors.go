package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10, 30},
		},
	)

	totalHttpRequestsByAuth = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_by_auth", Help: "http requests by login state"},
		[]string{"authenticated"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "unologin_gateway_requests_total", Help: "calls to the unolog·in API by outcome"},
		[]string{"method", "path", "outcome"},
	)

	gatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unologin_gateway_latency_seconds",
			Help:    "latency of calls to the unolog·in API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	authOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "unologin_auth_outcomes_total", Help: "login verification outcomes"},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsByAuth,
		totalHttpRequestsToUri,
		totalHttpRequests,
		gatewayRequests,
		gatewayLatency,
		authOutcomes,
	)
}
