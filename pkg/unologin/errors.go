package unologin

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError. It is fixed when the error is built.
type Kind int

const (
	// KindAPI is any structured error returned by the unolog·in API.
	KindAPI Kind = iota
	// KindAuth means the request is not authenticated (401, param "user").
	KindAuth
)

// ParamUser is the data.param value that marks the user credential as the culprit.
const ParamUser = "user"

var (
	ErrNotSetUp = errors.New("unologin: library not set up")
	ErrNoToken  = errors.New("unologin: no login token")
)

// APIError mirrors the {code, msg, data} error body of the unolog·in API.
type APIError struct {
	Code int            `json:"code"`
	Msg  string         `json:"msg"`
	Data map[string]any `json:"data,omitempty"`

	kind Kind
}

// NewAPIError builds an APIError and decides its Kind.
func NewAPIError(code int, msg string, data map[string]any) *APIError {
	e := &APIError{Code: code, Msg: msg, Data: data}
	if code == http.StatusUnauthorized && data != nil {
		if p, ok := data["param"].(string); ok && p == ParamUser {
			e.kind = KindAuth
		}
	}
	return e
}

// NewAuthError returns a 401 error whose param is "user".
func NewAuthError(msg string, extra map[string]any) *APIError {
	data := map[string]any{"param": ParamUser}
	for k, v := range extra {
		if k == "param" {
			continue
		}
		data[k] = v
	}
	return NewAPIError(http.StatusUnauthorized, msg, data)
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unologin api error %d: %s", e.Code, e.Msg)
}

func (e *APIError) Kind() Kind { return e.kind }

// IsAuthError reports whether the error was caused by missing or invalid credentials.
func (e *APIError) IsAuthError() bool { return e != nil && e.kind == KindAuth }

// IsAuthError reports whether err wraps an authentication fault.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsAuthError()
	}
	return false
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// ConfigError signals a broken deployment: bad API key, bad signing key.
// It is never retried.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "unologin: " + e.Msg + ": " + e.Err.Error()
	}
	return "unologin: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// GatewayError is a non-2xx response whose body is not {code, msg, data}.
// Body holds the raw response text.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unologin gateway: status %d", e.Status)
	}
	return fmt.Sprintf("unologin gateway: status %d: %s", e.Status, e.Body)
}
