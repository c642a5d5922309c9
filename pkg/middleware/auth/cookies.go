package auth

import (
	"net/http"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

const (
	// LoginCookieName holds the app login token; servers only.
	LoginCookieName = "_uno_appLoginToken"
	// LoginStateCookieName tells client scripts that a login exists.
	LoginStateCookieName = "_uno_loginState"

	loginStateSuccess = "success"
	deletedValue      = "deleted"
)

func (m *Middleware) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	o := m.client.Options()
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.CookiesDomain,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   !o.DisableSecureCookies,
		SameSite: o.CookieSameSite,
	}
}

// SetLoginCookies stores a renewed login on the client.
func (m *Middleware) SetLoginCookies(w http.ResponseWriter, c unologin.LoginCookie) {
	m.setCookie(w, m.cookie(LoginCookieName, c.Value, c.MaxAge, true))
	m.setCookie(w, m.cookie(LoginStateCookieName, loginStateSuccess, c.MaxAge, false))
}

// ResetLoginCookies overwrites both login cookies with a value that expires
// right away. MaxAge 0 behaves inconsistently across browsers.
func (m *Middleware) ResetLoginCookies(w http.ResponseWriter) {
	m.setCookie(w, m.cookie(LoginCookieName, deletedValue, 1, true))
	m.setCookie(w, m.cookie(LoginStateCookieName, deletedValue, 1, false))
}

func loginToken(r *http.Request) string {
	c, err := r.Cookie(LoginCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
