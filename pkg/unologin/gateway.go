package unologin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joeydtaylor/unologin-go/pkg/codec"
)

// Requester performs a signed call to the unolog·in API and returns the raw
// JSON result of a 2xx response. Non-2xx responses come back as *APIError
// when the body is {code, msg, data} and *GatewayError otherwise.
//
//go:generate mockgen -destination=mocks/requester_mock.go -package=mocks . Requester
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// RequestFunc adapts a function to Requester.
type RequestFunc func(ctx context.Context, method, path string, body any) (json.RawMessage, error)

func (f RequestFunc) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return f(ctx, method, path, body)
}

// HTTPDoer is satisfied by *http.Client and allows easy mocking in tests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPGateway is the default Requester.
type HTTPGateway struct {
	doer    HTTPDoer
	baseURL *url.URL
	apiKey  string
	codec   codec.Codec
}

// NewHTTPGateway returns a gateway that resolves paths against apiURL and
// authenticates with apiKey.
func NewHTTPGateway(apiURL, apiKey string, doer HTTPDoer) (*HTTPGateway, error) {
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, &ConfigError{Msg: "invalid realm api url", Err: err}
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &HTTPGateway{doer: doer, baseURL: base, apiKey: apiKey, codec: codec.JSON}, nil
}

func (g *HTTPGateway) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("unologin: bad path %q: %w", path, err)
	}
	target := g.baseURL.ResolveReference(ref)

	if body == nil {
		body = struct{}{}
	}
	payload, err := g.codec.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("unologin: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", g.codec.ContentType())
	req.Header.Set("Accept", g.codec.ContentType())
	req.Header.Set("X-API-Key", g.apiKey)

	res, err := g.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("unologin: read response: %w", err)
	}
	isJSON := codec.IsJSONContentType(res.Header.Get("Content-Type"))

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if isJSON {
			return json.RawMessage(raw), nil
		}
		// plain text results are handed back as a JSON string
		return g.codec.Marshal(string(raw))
	}

	if isJSON {
		if apiErr := decodeAPIError(g.codec, res.StatusCode, raw); apiErr != nil {
			return nil, apiErr
		}
	}
	return nil, &GatewayError{Status: res.StatusCode, Body: strings.TrimSpace(string(raw))}
}

// decodeAPIError returns nil unless raw is an object carrying code and msg.
func decodeAPIError(c codec.Codec, status int, raw []byte) *APIError {
	var fields map[string]json.RawMessage
	if err := c.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	if _, ok := fields["code"]; !ok {
		return nil
	}
	msgRaw, ok := fields["msg"]
	if !ok {
		return nil
	}

	var msg string
	if err := c.Unmarshal(msgRaw, &msg); err != nil {
		msg = string(msgRaw)
	}
	var data map[string]any
	if d, ok := fields["data"]; ok {
		// non-object data is dropped; only objects carry a param
		_ = c.Unmarshal(d, &data)
	}
	return NewAPIError(status, msg, data)
}
