package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/unologin-go/pkg/manifest"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
	"github.com/joeydtaylor/unologin-go/pkg/transport/httpx"
	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

func init() {
	Register("core-test.echo-user", func(ctx context.Context, _ []byte) ([]byte, int, error) {
		u := auth.UserFromContext(ctx)
		if u == nil {
			return []byte(`{"asuId":""}`), http.StatusOK, nil
		}
		return []byte(`{"asuId":"` + u.AsuID + `"}`), http.StatusOK, nil
	})
	Register("core-test.deadline", func(ctx context.Context, _ []byte) ([]byte, int, error) {
		if _, ok := ctx.Deadline(); ok {
			return []byte(`{"deadline":true}`), http.StatusOK, nil
		}
		return []byte(`{"deadline":false}`), http.StatusOK, nil
	})
}

func testRoutes() []manifest.Route {
	return []manifest.Route{
		{Path: "/whoami", Method: "GET", Handler: manifest.HSpec{Type: manifest.HandlerWhoami}},
		{Path: "/me", Method: "GET", Guard: manifest.Guard{RequireLogin: true}, Handler: manifest.HSpec{Type: manifest.HandlerWhoami}},
		{Path: "/admin", Method: "GET", Guard: manifest.Guard{UserClasses: []string{"admin"}}, Handler: manifest.HSpec{Type: manifest.HandlerInproc, Name: "core-test.echo-user"}},
		{Path: "/slow", Method: "GET", Policy: manifest.Policy{TimeoutMS: 500}, Handler: manifest.HSpec{Type: manifest.HandlerInproc, Name: "core-test.deadline"}},
		{Path: "/missing", Method: "GET", Handler: manifest.HSpec{Type: manifest.HandlerInproc, Name: "core-test.nope"}},
		{Path: "/key", Method: "GET", Handler: manifest.HSpec{Type: manifest.HandlerPublicKey}},
		{Path: "/logout", Method: "POST", Handler: manifest.HSpec{Type: manifest.HandlerLogout}},
	}
}

func buildTestRouter(t *testing.T, a *auth.Middleware) http.Handler {
	t.Helper()
	return BuildRouter(manifest.Config{Routes: testRoutes()}, BuildDeps{
		Auth:   a,
		Router: httpx.NewChi(),
	})
}

func serve(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestBuildRouter_Whoami(t *testing.T) {
	a, _ := newDevAuth(t)
	h := buildTestRouter(t, a)

	w := serve(h, http.MethodGet, "/whoami", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"loggedIn":false}`, w.Body.String())

	w = serve(h, http.MethodGet, "/whoami", map[string]string{"X-Dev-AsuId": "u-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp whoamiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.LoggedIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u-1", resp.User.AsuID)
	assert.Equal(t, testAppID, resp.User.AppID)
}

func TestBuildRouter_RequireLogin(t *testing.T) {
	a, _ := newDevAuth(t)
	h := buildTestRouter(t, a)

	w := serve(h, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Auth error: not logged in")

	w = serve(h, http.MethodGet, "/me", map[string]string{"X-Dev-AsuId": "u-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRouter_UserClasses(t *testing.T) {
	a, _ := newDevAuth(t)
	h := buildTestRouter(t, a)

	w := serve(h, http.MethodGet, "/admin", map[string]string{"X-Dev-AsuId": "u-1", "X-Dev-UserClasses": "users_default"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(h, http.MethodGet, "/admin", map[string]string{"X-Dev-AsuId": "u-2", "X-Dev-UserClasses": "users_default, admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"asuId":"u-2"}`, w.Body.String())
}

func TestBuildRouter_InvalidCookieIsAuthFault(t *testing.T) {
	a, _ := newDevAuth(t)
	h := buildTestRouter(t, a)

	r := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.AddCookie(&http.Cookie{Name: auth.LoginCookieName, Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Auth error: "))
	var reset bool
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.LoginCookieName && c.Value == "deleted" {
			reset = true
		}
	}
	assert.True(t, reset, "login cookie is reset")
}

func TestBuildRouter_PublicKey(t *testing.T) {
	a, key := newDevAuth(t)
	h := buildTestRouter(t, a)

	w := serve(h, http.MethodGet, "/key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got unologin.PublicKey
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, key, got)
}

func TestBuildRouter_TimeoutAndMissingHandler(t *testing.T) {
	a, _ := newDevAuth(t)
	h := buildTestRouter(t, a)

	w := serve(h, http.MethodGet, "/slow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())

	w = serve(h, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "handler not found")
}

func TestBuildRouter_PingAndLogout(t *testing.T) {
	a, _ := newDevAuth(t)
	h := buildTestRouter(t, a)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodPost, "/logout", nil).Code)
}

func TestBuildRouter_NoAuthClosesProtectedRoutes(t *testing.T) {
	h := buildTestRouter(t, nil)

	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/key", nil).Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/whoami", nil).Code)
}
