package manifest

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// Config is the top-level manifest.
type Config struct {
	Unologin Unologin `toml:"unologin"`
	Routes   []Route  `toml:"route"`
}

// Unologin configures the client and the cookie layer.
type Unologin struct {
	APIKey    string         `toml:"api_key"`
	APIKeyEnv string         `toml:"api_key_env"` // read the key from this env var when api_key is empty
	Realm     unologin.Realm `toml:"realm"`

	CookiesDomain        string `toml:"cookies_domain"`
	CookieSameSite       string `toml:"cookie_same_site"` // "none" | "lax" | "strict"
	DisableSecureCookies bool   `toml:"disable_secure_cookies"`
	SkipPublicKeyCheck   bool   `toml:"skip_public_key_check"`

	DevBypass bool `toml:"dev_bypass"`
	TimeoutMS int  `toml:"timeout_ms"` // API call timeout; 0 keeps the client default
}

// Validate normalizes routes and checks the manifest for mistakes that would
// only surface at request time.
func (c *Config) Validate() error {
	if err := c.Unologin.validate(); err != nil {
		return fmt.Errorf("unologin: %w", err)
	}
	if len(c.Routes) == 0 {
		return errors.New("manifest must declare at least one [[route]]")
	}
	return c.validateRoutes()
}

func (u *Unologin) validate() error {
	if _, err := u.sameSite(); err != nil {
		return err
	}
	if u.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	if u.ResolvedAPIKey() == "" {
		return errors.New("api_key (or api_key_env) is required")
	}
	return nil
}

// ResolvedAPIKey returns api_key, or the value of api_key_env.
func (u *Unologin) ResolvedAPIKey() string {
	if k := strings.TrimSpace(u.APIKey); k != "" {
		return k
	}
	if u.APIKeyEnv != "" {
		return strings.TrimSpace(os.Getenv(u.APIKeyEnv))
	}
	return ""
}

func (u *Unologin) sameSite() (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(u.CookieSameSite)) {
	case "", "none":
		return http.SameSiteNoneMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	default:
		return 0, fmt.Errorf("cookie_same_site %q invalid", u.CookieSameSite)
	}
}

// ClientOptions maps the section onto unologin.Options.
func (u *Unologin) ClientOptions() (unologin.Options, error) {
	ss, err := u.sameSite()
	if err != nil {
		return unologin.Options{}, err
	}
	o := unologin.Options{
		APIKey:               u.ResolvedAPIKey(),
		Realm:                u.Realm,
		CookiesDomain:        u.CookiesDomain,
		CookieSameSite:       ss,
		DisableSecureCookies: u.DisableSecureCookies,
		SkipPublicKeyCheck:   u.SkipPublicKeyCheck,
	}
	if u.TimeoutMS > 0 {
		o.HTTPClient = &http.Client{Timeout: time.Duration(u.TimeoutMS) * time.Millisecond}
	}
	return o, nil
}
