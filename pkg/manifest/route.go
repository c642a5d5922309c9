package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Route describes a single HTTP route.
type Route struct {
	Path    string   `toml:"path"`
	Method  string   `toml:"method"`
	Guard   Guard    `toml:"guard"`
	Policy  Policy   `toml:"policy"`
	Handler HSpec    `toml:"handler"`
	Tags    []string `toml:"tags"`
	LogBody bool     `toml:"log_body"` // allowlist small JSON bodies in the access log
}

// Guard restricts a route to logged-in users, optionally of given classes.
type Guard struct {
	RequireLogin bool     `toml:"require_login"`
	UserClasses  []string `toml:"user_classes"`
}

// Protected reports whether the route needs a login.
func (g Guard) Protected() bool { return g.RequireLogin || len(g.UserClasses) > 0 }

type Policy struct {
	TimeoutMS int `toml:"timeout_ms"`
}

type HSpec struct {
	Type HandlerType `toml:"type"`
	Name string      `toml:"name"`
}

// normalize path/method
func (r *Route) normalize() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	if r.Path != "/" {
		r.Path = path.Clean(r.Path)
	}
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "GET"
	}
	for i, c := range r.Guard.UserClasses {
		r.Guard.UserClasses[i] = strings.TrimSpace(c)
	}
	return nil
}

// validate fields that are independent of global state.
func (r *Route) validate() error {
	switch r.Handler.Type {
	case HandlerInproc:
		if strings.TrimSpace(r.Handler.Name) == "" {
			return errors.New("handler.name required for inproc")
		}
	case HandlerWhoami, HandlerPublicKey, HandlerLogout:
	case HandlerLogin:
		if r.Guard.Protected() {
			return errors.New("login handler cannot require a login")
		}
	default:
		return fmt.Errorf("unknown handler type %q", r.Handler.Type)
	}

	for _, c := range r.Guard.UserClasses {
		if c == "" {
			return errors.New("guard.user_classes must not contain empty names")
		}
	}
	if r.Policy.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	return nil
}
