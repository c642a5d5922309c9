package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/core"
	"github.com/joeydtaylor/unologin-go/pkg/manifest"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/logger"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/metrics"
	"github.com/joeydtaylor/unologin-go/pkg/transport/httpx"
	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs/metrics tags only
	ManifestEnv     string // e.g., UNOLOGIN_MANIFEST
	DefaultManifest string // e.g., "manifest.toml"
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

func defaultConfig() Config {
	return Config{
		Service:         "unologin",
		ManifestEnv:     "UNOLOGIN_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideManifest),
		fx.Provide(provideClient),
		fx.Provide(provideAuthConfig),
		// Core middleware
		auth.Module,
		logger.Module,
		metrics.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		// Router
		fx.Provide(fx.Annotate(
			provideRouter,
			fx.ParamTags(``, ``, ``, `name:"metrics"`, ``, ``), // man,a,lm,m,r,zl
			fx.ResultTags(`name:"app"`),
		)),
		// Lifecycle
		fx.Invoke(observeAuth),
		fx.Invoke(registerHooks),
	)
}

// ---------- Providers ----------

func provideManifest(cfg Config, zl *zap.Logger) (manifest.Config, error) {
	cfgPath := envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	man, err := core.LoadConfig(cfgPath)
	if err != nil {
		zl.Error("manifest load failed", zap.Error(err), zap.String("path", cfgPath))
		return manifest.Config{}, err
	}
	return man, nil
}

// provideClient fails the app at startup when the API key is malformed.
func provideClient(man manifest.Config) (*unologin.Client, error) {
	opts, err := man.Unologin.ClientOptions()
	if err != nil {
		return nil, err
	}
	opts.WrapRequester = metrics.InstrumentRequester
	return unologin.New(opts)
}

func provideAuthConfig(man manifest.Config) auth.Config {
	return auth.Config{DevBypass: man.Unologin.DevBypass}
}

func observeAuth(a *auth.Middleware) {
	a.OnOutcome(metrics.ObserveAuthOutcome)
}

// ---------- Router ----------

func provideRouter(
	man manifest.Config,
	a *auth.Middleware,
	lm *logger.Middleware,
	/* name:"metrics" */ m http.Handler,
	r httpx.Router,
	zl *zap.Logger,
) http.Handler {
	return core.BuildRouter(man, core.BuildDeps{
		Auth:    a,
		LogMW:   lm,
		Metrics: m,
		Router:  r,
		Log:     zl,
	})
}

// ---------- Lifecycle (HTTP server) ----------

type serverDeps struct {
	fx.In
	Logger *zap.Logger
	Client *unologin.Client
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	addr := envOr(cfg.ListenEnv, ":4000")
	cert := os.Getenv(cfg.TLSCertEnv)
	key := os.Getenv(cfg.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Warm the key cache (non-fatal; requests fetch it on demand).
			if _, err := d.Client.Keys().LoginTokenKey(ctx); err != nil {
				if unologin.IsConfigError(err) {
					return err
				}
				d.Logger.Warn("login token key prefetch failed", zap.Error(err))
			}

			// Start HTTP.
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", cfg.Service), zap.String("addr", addr), zap.String("cert", cert),
					zap.String("appId", d.Client.AppID()))
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", cfg.Service), zap.String("addr", addr),
					zap.String("appId", d.Client.AppID()))
				go func() {
					srv.TLSConfig = nil
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping")
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
