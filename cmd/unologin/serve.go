package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/core"
	"github.com/joeydtaylor/unologin-go/pkg/serverfx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server described by the manifest",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	registerExampleHandlers()

	app := fx.New(
		// --manifest already defaults to $UNOLOGIN_MANIFEST
		serverfx.Module(serverfx.WithManifestEnv(""), serverfx.WithDefaultManifest(manifestPath)),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.L()}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

// registerExampleHandlers backs the inproc handlers used by manifest.toml.
func registerExampleHandlers() {
	core.Register("hello", helloHandler)
	core.Register("admin.stats", adminStatsHandler)
}
