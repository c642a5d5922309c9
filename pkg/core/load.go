// pkg/core/load.go
package core

import (
	"bytes"
	"os"
	"strings"

	manifest "github.com/joeydtaylor/unologin-go/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment overrides applied on top of the manifest.
const (
	EnvAPIKey      = "UNOLOGIN_API_KEY"
	EnvAPIURL      = "UNOLOGIN_API_URL"
	EnvFrontendURL = "UNOLOGIN_FRONTEND_URL"
)

// LoadConfig reads a manifest, applies env overrides and validates it.
// Unknown keys are rejected so typos do not silently disable a guard.
func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	return ParseConfig(b)
}

// ParseConfig is LoadConfig for manifest bytes.
func ParseConfig(b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return manifest.Config{}, err
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *manifest.Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.Unologin.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.Unologin.Realm.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFrontendURL)); v != "" {
		cfg.Unologin.Realm.FrontendURL = v
	}
}
