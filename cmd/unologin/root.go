package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joeydtaylor/unologin-go/pkg/codec"
	"github.com/joeydtaylor/unologin-go/pkg/core"
	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

var (
	logLevel     string
	manifestPath string
)

var rootCmd = &cobra.Command{
	Use:   "unologin",
	Short: "unolog·in session boundary",
	Long: `Serves an app behind the unolog·in session boundary and inspects
login tokens against the unolog·in API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

// Execute runs the root command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", envOr("UNOLOGIN_MANIFEST", "manifest.toml"), "Path to the service manifest")
}

func initLogger() {
	if strings.ToLower(logLevel) == "debug" {
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
		return
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.CallerKey = zapcore.OmitKey
	if lvl, err := zapcore.ParseLevel(logLevel); err == nil && logLevel != "" {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	zap.ReplaceGlobals(zap.Must(config.Build()))
}

// newClient builds a client from the manifest's [unologin] section.
func newClient() (*unologin.Client, error) {
	man, err := core.LoadConfig(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", manifestPath, err)
	}
	opts, err := man.Unologin.ClientOptions()
	if err != nil {
		return nil, err
	}
	return unologin.New(opts)
}

func printJSON(w io.Writer, v any) error {
	b, err := codec.JSON.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
