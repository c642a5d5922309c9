package auth

import (
	"net/http"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// AuthErrorHandler runs when a request carries an invalid login. It must
// write the response; the request is not passed on.
type AuthErrorHandler func(w http.ResponseWriter, r *http.Request, err *unologin.APIError)

// LoginSuccessHandler runs after a login event was verified and before the
// cookies are set. Returning an auth error turns the login into a failure.
type LoginSuccessHandler func(w http.ResponseWriter, r *http.Request, user unologin.UserToken) error

// CookieSetter writes a cookie to the response.
type CookieSetter func(w http.ResponseWriter, c *http.Cookie)

// Outcome labels reported to an OutcomeObserver.
const (
	OutcomeVerified  = "verified"
	OutcomeRefreshed = "refreshed"
	OutcomeAnonymous = "anonymous"
	OutcomeAuthFault = "auth_fault"
	OutcomeError     = "error"
	OutcomeDev       = "dev_bypass"
)

// OutcomeObserver receives one outcome per verification.
type OutcomeObserver func(outcome string)

// Config holds the settings of the HTTP layer that are not part of the client.
type Config struct {
	// DevBypass trusts X-Dev-AsuId / X-Dev-UserClasses headers. Local use only.
	DevBypass bool
}
