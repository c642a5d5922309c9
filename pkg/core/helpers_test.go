package core

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

const testAppID = "core-test-app"

func legacyAPIKey(appID string) string {
	raw, _ := json.Marshal(map[string]any{
		"payload": map[string]any{"data": map[string]any{"appId": appID}},
	})
	return base64.StdEncoding.EncodeToString(raw)
}

func pemKey(t *testing.T) string {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// newDevAuth builds an auth layer that trusts X-Dev-* headers and serves a
// fixed public key. Every other API call fails.
func newDevAuth(t *testing.T) (*auth.Middleware, unologin.PublicKey) {
	t.Helper()
	key := unologin.PublicKey{Data: pemKey(t), CreatedAt: time.Now().UnixMilli()}
	keyJSON, err := json.Marshal(key)
	require.NoError(t, err)

	client, err := unologin.New(unologin.Options{
		APIKey: legacyAPIKey(testAppID),
		Requester: unologin.RequestFunc(func(_ context.Context, _, path string, _ any) (json.RawMessage, error) {
			if path == unologin.PublicKeyPath {
				return keyJSON, nil
			}
			return nil, errors.New("unexpected call to " + path)
		}),
	})
	require.NoError(t, err)
	return auth.New(client, auth.Config{DevBypass: true}, nil), key
}
