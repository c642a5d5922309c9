package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

const testAppID = "test-app"

var testNow = time.Unix(1_700_000_000, 0)

type fixture struct {
	t    *testing.T
	priv *rsa.PrivateKey
	mw   *Middleware

	refreshCalls atomic.Int32
	refresh      func(token string) (json.RawMessage, error)
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	keyJSON, err := json.Marshal(unologin.PublicKey{
		Data:      string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
		CreatedAt: testNow.UnixMilli(),
	})
	require.NoError(t, err)

	f := &fixture{t: t, priv: priv}
	f.refresh = func(string) (json.RawMessage, error) {
		return f.refreshPair(unologin.LoginCookie{Value: "renewed", MaxAge: 3600})
	}

	requester := unologin.RequestFunc(func(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
		switch path {
		case unologin.PublicKeyPath:
			return keyJSON, nil
		case "/users/refresh":
			f.refreshCalls.Add(1)
			raw, _ := json.Marshal(body)
			var req struct {
				User struct {
					AppLoginToken string `json:"appLoginToken"`
				} `json:"user"`
			}
			_ = json.Unmarshal(raw, &req)
			return f.refresh(req.User.AppLoginToken)
		}
		t.Fatalf("unexpected request %s %s", method, path)
		return nil, nil
	})

	client, err := unologin.New(unologin.Options{
		APIKey:        legacyAPIKey(testAppID),
		Requester:     requester,
		CookiesDomain: "example.com",
		Now:           func() time.Time { return testNow },
	})
	require.NoError(t, err)

	f.mw = New(client, cfg, nil)
	return f
}

func legacyAPIKey(appID string) string {
	raw, _ := json.Marshal(map[string]any{
		"payload": map[string]any{"data": map[string]any{"appId": appID}},
	})
	return base64.StdEncoding.EncodeToString(raw)
}

func (f *fixture) refreshPair(c unologin.LoginCookie) (json.RawMessage, error) {
	user := unologin.UserToken{AppID: testAppID, AsuID: "refreshed-user", UserClasses: []string{"users_default"}, IssuedAt: testNow.Unix()}
	return json.Marshal([]any{user, c})
}

// token signs a login token for asuID. A non-nil refreshAt makes it due for
// refresh when refreshAt+iat is in the past.
func (f *fixture) token(appID, asuID string, classes []string, refreshAt *int64) string {
	f.t.Helper()
	claims := jwt.MapClaims{
		"appId":       appID,
		"asuId":       asuID,
		"userClasses": classes,
		"iat":         testNow.Add(-time.Hour).Unix(),
	}
	if refreshAt != nil {
		claims["r"] = *refreshAt
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(f.priv)
	require.NoError(f.t, err)
	return s
}

func withLoginCookie(r *http.Request, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: LoginCookieName, Value: token})
	return r
}

func cookiesByName(res *http.Response) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range res.Cookies() {
		out[c.Name] = c
	}
	return out
}

func int64p(v int64) *int64 { return &v }
