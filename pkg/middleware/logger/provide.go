package logger

import (
	"os"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Middleware owns the access log; see Middleware.Middleware.
type Middleware struct{}

func ProvideLoggerMiddleware() *Middleware { return &Middleware{} }

// ProvideLogger is the system logger. LOG_LEVEL picks the level (info by default).
func ProvideLogger() *zap.Logger {
	lvl := zapcore.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if parsed, err := zapcore.ParseLevel(v); err == nil {
			lvl = parsed
		}
	}
	return newLog("system.log", lvl, true)
}

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
