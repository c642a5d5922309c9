package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// Gateway outcome labels.
const (
	outcomeOK        = "ok"
	outcomeAuthFault = "auth_fault"
	outcomeAPIError  = "api_error"
	outcomeGateway   = "gateway_error"
	outcomeTransport = "transport_error"
)

// InstrumentRequester counts and times every call made through next. Use it
// as unologin.Options.WrapRequester.
func InstrumentRequester(next unologin.Requester) unologin.Requester {
	return unologin.RequestFunc(func(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
		start := time.Now()
		raw, err := next.Request(ctx, method, path, body)
		gatewayLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		gatewayRequests.WithLabelValues(method, path, gatewayOutcome(err)).Inc()
		return raw, err
	})
}

func gatewayOutcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	if apiErr, ok := unologin.AsAPIError(err); ok {
		if apiErr.IsAuthError() {
			return outcomeAuthFault
		}
		return outcomeAPIError
	}
	var gwErr *unologin.GatewayError
	if errors.As(err, &gwErr) {
		return outcomeGateway
	}
	return outcomeTransport
}
