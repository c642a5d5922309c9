package auth

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/codec"
	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// LoginEventHandler completes a login started on the unolog·in frontend. The
// token arrives as the "token" query parameter or body field; it is always
// refreshed so the client gets a cookie of its own. The user is redirected to
// the "origin" query parameter, or the realm frontend, with the outcome in
// loginHandlerSuccess / loginHandlerMsg.
func (m *Middleware) LoginEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = WithRequestCache(r)
		token := loginEventToken(r)

		var msg string
		if err := m.completeLogin(w, r, token); err != nil {
			var apiErr *unologin.APIError
			if !errors.As(err, &apiErr) || !apiErr.IsAuthError() {
				m.log.Error("login event failed", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			m.log.Warn("login event rejected", zap.String("reason", apiErr.Msg))
			msg = apiErr.Msg
			if msg == "" {
				msg = "unknown error"
			}
		}

		target, err := m.loginRedirect(r, msg)
		if err != nil {
			http.Error(w, "invalid origin", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func (m *Middleware) completeLogin(w http.ResponseWriter, r *http.Request, token string) error {
	if token == "" {
		m.observe(OutcomeAuthFault)
		return unologin.NewAuthError("no login token provided", nil)
	}
	user, cookie, err := m.client.VerifyTokenAndRefresh(r.Context(), token, true)
	if err != nil {
		if unologin.IsAuthError(err) {
			m.observe(OutcomeAuthFault)
		} else {
			m.observe(OutcomeError)
		}
		return err
	}
	m.observe(OutcomeRefreshed)
	setCachedUser(r.Context(), &user)

	if m.loginSuccess != nil {
		if err := m.loginSuccess(w, r, user); err != nil {
			return err
		}
	}
	if cookie != nil {
		m.SetLoginCookies(w, *cookie)
	}
	return nil
}

func (m *Middleware) loginRedirect(r *http.Request, msg string) (string, error) {
	o := m.client.Options()
	origin := r.URL.Query().Get("origin")
	if origin != "" {
		// origin arrives URI-encoded inside the query value; '+' is literal
		if dec, err := url.PathUnescape(origin); err == nil {
			origin = dec
		}
	} else {
		origin = o.Realm.FrontendURL
	}

	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if msg == "" {
		q.Set("loginHandlerSuccess", "true")
	} else {
		q.Set("loginHandlerSuccess", "false")
		q.Set("loginHandlerMsg", msg)
	}
	q.Set("appId", o.AppID)
	q.Set("client", "Web")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func loginEventToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return ""
	}
	if codec.IsJSONContentType(r.Header.Get("Content-Type")) {
		var body struct {
			Token string `json:"token"`
		}
		if err := codec.JSON.Unmarshal(readBody(r), &body); err == nil {
			return body.Token
		}
		return ""
	}
	return strings.TrimSpace(r.PostFormValue("token"))
}

func readBody(r *http.Request) []byte {
	b, _ := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	return b
}

// LogoutHandler expires the login cookies and answers 204.
func (m *Middleware) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.ResetLoginCookies(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Logout expires the login cookies before calling next.
func (m *Middleware) Logout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.ResetLoginCookies(w)
		next.ServeHTTP(w, r)
	})
}
