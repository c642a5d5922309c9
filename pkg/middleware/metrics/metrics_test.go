package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

func TestInstrumentRequester_Outcomes(t *testing.T) {
	tests := []struct {
		outcome string
		err     error
	}{
		{outcomeOK, nil},
		{outcomeAuthFault, unologin.NewAuthError("bad", nil)},
		{outcomeAPIError, unologin.NewAPIError(400, "bad", nil)},
		{outcomeGateway, &unologin.GatewayError{Status: 502}},
		{outcomeTransport, errors.New("dial tcp: refused")},
	}
	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			path := "/test/" + tt.outcome
			next := unologin.RequestFunc(func(context.Context, string, string, any) (json.RawMessage, error) {
				return json.RawMessage(`{}`), tt.err
			})
			_, err := InstrumentRequester(next).Request(context.Background(), http.MethodGet, path, nil)
			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1.0, testutil.ToFloat64(gatewayRequests.WithLabelValues(http.MethodGet, path, tt.outcome)))
		})
	}
}

func TestObserveAuthOutcome(t *testing.T) {
	before := testutil.ToFloat64(authOutcomes.WithLabelValues("verified"))
	ObserveAuthOutcome("verified")
	ObserveAuthOutcome("verified")
	assert.Equal(t, before+2, testutil.ToFloat64(authOutcomes.WithLabelValues("verified")))
}

func TestCollect_UsesRoutePatternAndSkipsMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Collect(nil))
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(totalHttpRequests.WithLabelValues("200", http.MethodGet))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/users/{id}", http.MethodGet)))
	assert.Equal(t, before+1, testutil.ToFloat64(totalHttpRequests.WithLabelValues("200", http.MethodGet)))
	assert.Equal(t, 0.0, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/metrics", http.MethodGet)))
}
