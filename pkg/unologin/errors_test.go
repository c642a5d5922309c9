package unologin

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAPIError_Kind(t *testing.T) {
	tests := []struct {
		name string
		code int
		data map[string]any
		auth bool
	}{
		{"401 user param", 401, map[string]any{"param": "user"}, true},
		{"401 other param", 401, map[string]any{"param": "appId"}, false},
		{"401 no data", 401, nil, false},
		{"403 user param", 403, map[string]any{"param": "user"}, false},
		{"401 non-string param", 401, map[string]any{"param": 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.code, "msg", tt.data)
			assert.Equal(t, tt.auth, err.IsAuthError())
			if tt.auth {
				assert.Equal(t, KindAuth, err.Kind())
			} else {
				assert.Equal(t, KindAPI, err.Kind())
			}
		})
	}
}

func TestNewAuthError_KeepsParam(t *testing.T) {
	err := NewAuthError("nope", map[string]any{"param": "appId", "user": "x"})
	assert.True(t, err.IsAuthError())
	assert.Equal(t, 401, err.Code)
	assert.Equal(t, ParamUser, err.Data["param"])
	assert.Equal(t, "x", err.Data["user"])
}

func TestIsAuthError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewAuthError("Login required.", nil))
	assert.True(t, IsAuthError(wrapped))

	apiErr, ok := AsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Login required.", apiErr.Msg)

	assert.False(t, IsAuthError(errors.New("boom")))
	assert.False(t, IsAuthError(&GatewayError{Status: 401}))
}

func TestConfigError(t *testing.T) {
	cause := errors.New("bad base64")
	err := fmt.Errorf("setup: %w", &ConfigError{Msg: "malformed API key", Err: cause})

	assert.True(t, IsConfigError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "malformed API key")
	assert.False(t, IsAuthError(err))
}

func TestGatewayError_Message(t *testing.T) {
	assert.Equal(t, "unologin gateway: status 502", (&GatewayError{Status: 502}).Error())
	assert.Equal(t, "unologin gateway: status 500: oops", (&GatewayError{Status: 500, Body: "oops"}).Error())
}
