package unologin

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Realm is a unolog·in deployment.
type Realm struct {
	APIURL      string `toml:"api_url"`
	FrontendURL string `toml:"frontend_url"`
}

// LiveRealm is the production deployment.
var LiveRealm = Realm{
	APIURL:      "https://v1.unolog.in",
	FrontendURL: "https://login.unolog.in",
}

// Options configures a Client. Build one per process and pass it around;
// AppID is derived from APIKey by New.
type Options struct {
	APIKey string
	AppID  string
	Realm  Realm

	CookiesDomain        string
	CookieSameSite       http.SameSite
	DisableSecureCookies bool

	// SkipPublicKeyCheck accepts keys that do not start with a PEM header.
	SkipPublicKeyCheck bool

	// Requester overrides the HTTP gateway built from Realm and APIKey.
	Requester Requester
	// WrapRequester decorates whichever Requester ends up in use (metrics, tracing).
	WrapRequester func(Requester) Requester
	// HTTPClient is used by the default gateway. Defaults to an 8s-timeout client.
	HTTPClient HTTPDoer

	Now func() time.Time
}

// APIKeyPayload is the decoded body of an API key.
type APIKeyPayload struct {
	AppID string `json:"appId"`
}

// DecodeAPIKey extracts the payload of an API key. Keys containing a dot are
// JWTs (decoded, not verified); anything else is the legacy base64 format
// {"payload":{"data":{...}}}.
func DecodeAPIKey(key string) (APIKeyPayload, error) {
	if key == "" {
		return APIKeyPayload{}, errors.New("empty API key")
	}

	var payload APIKeyPayload
	if strings.Contains(key, ".") {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
			return APIKeyPayload{}, err
		}
		appID, _ := claims["appId"].(string)
		payload.AppID = appID
	} else {
		raw, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return APIKeyPayload{}, err
		}
		var legacy struct {
			Payload struct {
				Data APIKeyPayload `json:"data"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return APIKeyPayload{}, err
		}
		payload = legacy.Payload.Data
	}

	if payload.AppID == "" {
		return APIKeyPayload{}, errors.New("API key payload has no appId")
	}
	return payload, nil
}

// withDefaults decodes the API key and fills unset fields.
func (o Options) withDefaults() (Options, error) {
	payload, err := DecodeAPIKey(o.APIKey)
	if err != nil {
		return Options{}, &ConfigError{Msg: "malformed API key", Err: err}
	}
	o.AppID = payload.AppID

	if o.Realm.APIURL == "" {
		o.Realm.APIURL = LiveRealm.APIURL
	}
	if o.Realm.FrontendURL == "" {
		o.Realm.FrontendURL = LiveRealm.FrontendURL
	}
	if o.CookieSameSite == 0 {
		o.CookieSameSite = http.SameSiteNoneMode
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
			Timeout: 8 * time.Second,
		}
	}
	return o, nil
}
