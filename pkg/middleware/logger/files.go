package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logDir is where rotated log files go; LOG_DIR overrides it.
func logDir() string {
	dir := strings.TrimSpace(os.Getenv("LOG_DIR"))
	if dir == "" {
		dir = "log"
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// NewLog tees JSON logs to a rotated file under the log dir and to stdout.
func NewLog(n string) *zap.Logger {
	return newLog(n, zap.InfoLevel, true)
}

func newLog(n string, level zapcore.Level, keepMessage bool) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if !keepMessage {
		cfg.MessageKey = zapcore.OmitKey
	}

	console := zapcore.Lock(os.Stdout)

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir(), n),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), console, level),
	)
	return zap.New(core)
}

var (
	accessOnce       sync.Once
	httpAccessLogger *zap.Logger
)

func accessLogger() *zap.Logger {
	accessOnce.Do(func() {
		if httpAccessLogger == nil {
			httpAccessLogger = newLog("http-access.log", zap.InfoLevel, false)
		}
	})
	return httpAccessLogger
}

// SetAccessLogger lets tests/CLIs override the access logger.
func SetAccessLogger(l *zap.Logger) {
	if l != nil {
		accessOnce.Do(func() {})
		httpAccessLogger = l
	}
}
