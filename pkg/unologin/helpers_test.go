package unologin

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testAppID = "test-app"

var testNow = time.Unix(1_700_000_000, 0)

// legacyAPIKey encodes appID the way older API keys were issued.
func legacyAPIKey(appID string) string {
	raw, _ := json.Marshal(map[string]any{
		"payload": map[string]any{"data": map[string]any{"appId": appID}},
	})
	return base64.StdEncoding.EncodeToString(raw)
}

type signer struct {
	priv *rsa.PrivateKey
	pem  string
}

func newSigner(t *testing.T) signer {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return signer{priv: priv, pem: string(block)}
}

func (s signer) publicKey(createdAt time.Time, expiresIn time.Duration) PublicKey {
	return PublicKey{Data: s.pem, CreatedAt: createdAt.UnixMilli(), ExpiresIn: expiresIn.Milliseconds()}
}

func (s signer) keyJSON(t *testing.T, createdAt time.Time, expiresIn time.Duration) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(s.publicKey(createdAt, expiresIn))
	require.NoError(t, err)
	return raw
}

func (s signer) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.priv)
	require.NoError(t, err)
	return tok
}

func userClaims(appID, asuID string, iat time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"appId":       appID,
		"asuId":       asuID,
		"userClasses": []string{"users_default"},
		"iat":         iat.Unix(),
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
