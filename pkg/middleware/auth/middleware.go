package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// Middleware turns login cookies into unolog·in identities for net/http.
type Middleware struct {
	client    *unologin.Client
	log       *zap.Logger
	devBypass bool

	setCookie    CookieSetter
	authError    AuthErrorHandler
	loginSuccess LoginSuccessHandler
	observe      OutcomeObserver
}

// New builds the HTTP layer around client. log may be nil.
func New(client *unologin.Client, cfg Config, log *zap.Logger) *Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Middleware{
		client:    client,
		log:       log,
		devBypass: cfg.DevBypass,
		setCookie: http.SetCookie,
		observe:   func(string) {},
	}
	m.authError = m.defaultAuthError
	return m
}

// Client returns the wrapped client.
func (m *Middleware) Client() *unologin.Client { return m.client }

// OnAuthError replaces the handler for invalid logins. The default resets the
// login cookies and answers 401.
func (m *Middleware) OnAuthError(h AuthErrorHandler) {
	if h != nil {
		m.authError = h
	}
}

// OnLoginSuccess installs a hook for the login event.
func (m *Middleware) OnLoginSuccess(h LoginSuccessHandler) { m.loginSuccess = h }

// SetCookieSetter replaces http.SetCookie.
func (m *Middleware) SetCookieSetter(s CookieSetter) {
	if s != nil {
		m.setCookie = s
	}
}

// OnOutcome registers an observer for verification outcomes (metrics).
func (m *Middleware) OnOutcome(o OutcomeObserver) {
	if o != nil {
		m.observe = o
	}
}

func (m *Middleware) defaultAuthError(w http.ResponseWriter, r *http.Request, err *unologin.APIError) {
	m.ResetLoginCookies(w)
	msg := err.Msg
	if msg == "" {
		msg = "unknown error"
	}
	http.Error(w, "Auth error: "+msg, http.StatusUnauthorized)
}

// UserTokenOptional returns the identity of the request, or nil when no login
// cookie is present. Verification runs at most once per request once
// WithRequestCache or ParseLogin has attached a cache. An invalid login is
// passed to the auth error handler, which writes the response, and the error
// is returned as well.
func (m *Middleware) UserTokenOptional(w http.ResponseWriter, r *http.Request) (*unologin.UserToken, error) {
	ctx := r.Context()
	if u, set := cachedUser(ctx); set {
		return u, nil
	}

	token := loginToken(r)
	if token == "" {
		m.observe(OutcomeAnonymous)
		return setCachedUser(ctx, nil), nil
	}

	user, cookie, err := m.client.VerifyTokenAndRefresh(ctx, token, false)
	if err != nil {
		setCachedUser(ctx, nil)
		var apiErr *unologin.APIError
		if errors.As(err, &apiErr) && apiErr.IsAuthError() {
			m.observe(OutcomeAuthFault)
			m.log.Warn("login rejected",
				zap.String("uri", r.URL.Path),
				zap.String("reason", apiErr.Msg),
			)
			m.authError(w, r, apiErr)
			return nil, err
		}
		m.observe(OutcomeError)
		m.log.Error("login verification failed", zap.String("uri", r.URL.Path), zap.Error(err))
		return nil, err
	}

	if cookie != nil {
		m.observe(OutcomeRefreshed)
		m.SetLoginCookies(w, *cookie)
	} else {
		m.observe(OutcomeVerified)
	}
	return setCachedUser(ctx, &user), nil
}

// UserToken is UserTokenOptional for callers that need a login. A missing
// login is an auth error ("Login required.") and is not passed to the auth
// error handler.
func (m *Middleware) UserToken(w http.ResponseWriter, r *http.Request) (unologin.UserToken, error) {
	u, err := m.UserTokenOptional(w, r)
	if err != nil {
		return unologin.UserToken{}, err
	}
	if u == nil {
		return unologin.UserToken{}, unologin.NewAuthError("Login required.", nil)
	}
	return *u, nil
}

// ParseLogin attaches the request cache and resolves the login cookie. Invalid
// logins are answered by the auth error handler; other failures with 500.
// Requests without a login pass through anonymously.
func (m *Middleware) ParseLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = WithRequestCache(r)

		if m.devBypass {
			if u, ok := m.devUserFromHeaders(r); ok {
				m.observe(OutcomeDev)
				setCachedUser(r.Context(), &u)
				next.ServeHTTP(w, r)
				return
			}
		}

		if _, err := m.UserTokenOptional(w, r); err != nil {
			if !unologin.IsAuthError(err) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLogin blocks anonymous requests through the auth error handler.
// It expects ParseLogin earlier in the chain.
func (m *Middleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r.Context()) {
			m.authError(w, r, unologin.NewAuthError("not logged in", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserClasses lets a request through when the user carries at least
// one of classes. Anonymous requests get the auth error handler, others 403.
func (m *Middleware) RequireUserClasses(classes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := m.GetUser(r.Context())
			if u == nil {
				m.authError(w, r, unologin.NewAuthError("not logged in", nil))
				return
			}
			if len(classes) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, c := range classes {
				if u.HasUserClass(c) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
