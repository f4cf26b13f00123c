package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"blogapi/internal/config"
	"blogapi/pkg/factory"
	"blogapi/pkg/logger"
)

// Version is reported by the CLI and the health endpoint.
var Version = "1.0.0"

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "blogapi",
	Short: "Multi-tenant blogging API",
	Long: `blogapi serves a blogging REST API with users, roles, blogs, categories,
comments, likes, media uploads and an audit trail.

Configuration is read from the environment and optional .env files.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env when present)")
}

// bootstrap loads the configuration and wires the application.
func bootstrap(ctx context.Context) (factory.Factory, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), nil)

	app, err := factory.NewFactory(ctx, cfg, log)
	if err != nil {
		log.Error("Application could not be initialized", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return app, nil
}
