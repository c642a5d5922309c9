package core

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/codec"
	manifest "github.com/joeydtaylor/unologin-go/pkg/manifest"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

type whoamiResponse struct {
	LoggedIn bool                `json:"loggedIn"`
	User     *unologin.UserToken `json:"user,omitempty"`
}

func wrapRoute(rt manifest.Route, d BuildDeps) http.HandlerFunc {
	switch rt.Handler.Type {
	case manifest.HandlerInproc:
		h, ok := Lookup(rt.Handler.Name)
		if !ok {
			return func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "handler not found", http.StatusInternalServerError)
			}
		}
		return func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			out, status, err := h(r.Context(), body)
			if err != nil {
				http.Error(w, err.Error(), statusIf(status, http.StatusInternalServerError))
				return
			}
			writeJSON(w, out, statusIf(status, http.StatusOK))
		}

	case manifest.HandlerWhoami:
		return func(w http.ResponseWriter, r *http.Request) {
			u := auth.UserFromContext(r.Context())
			out, err := codec.JSON.Marshal(whoamiResponse{LoggedIn: u != nil, User: u})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, out, http.StatusOK)
		}

	case manifest.HandlerLogin:
		if d.Auth == nil {
			return unavailable
		}
		return d.Auth.LoginEventHandler()

	case manifest.HandlerLogout:
		if d.Auth == nil {
			return unavailable
		}
		return d.Auth.LogoutHandler()

	case manifest.HandlerPublicKey:
		if d.Auth == nil {
			return unavailable
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key, err := d.Auth.Client().Keys().LoginTokenKey(r.Context())
			if err != nil {
				d.Log.Error("public key fetch failed", zap.Error(err))
				http.Error(w, "public key unavailable", http.StatusBadGateway)
				return
			}
			out, err := codec.JSON.Marshal(key)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, out, http.StatusOK)
		}

	default:
		return func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unknown handler type", http.StatusInternalServerError)
		}
	}
}

func unavailable(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "auth unavailable", http.StatusServiceUnavailable)
}

// parsesLogin reports whether the route resolves the login cookie before
// running. Login and logout handle the cookie themselves: a stale cookie
// must not block a fresh login.
func parsesLogin(t manifest.HandlerType) bool {
	return t != manifest.HandlerLogin && t != manifest.HandlerLogout
}
