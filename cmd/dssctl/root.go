package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/wellbeing-backend/internal/app"
	"github.com/yungbote/wellbeing-backend/internal/platform/envutil"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type rootOptions struct {
	dotenv  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "dssctl",
		Short: "Operator tooling for the student wellbeing backend",
		Long: `dssctl runs maintenance tasks against the configured store.

It reads the same environment variables as the HTTP server (DB_DRIVER,
POSTGRES_*, SQLITE_PATH, REDIS_ADDR, SCORING_CONFIG_PATH).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dotenv, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newIngestCmd(opts))
	root.AddCommand(newScoreCmd(opts))
	return root
}

// bootstrap loads configuration the way the server does.
func bootstrap(opts *rootOptions) (*logger.Logger, app.Config, error) {
	if _, err := envutil.LoadDotenv(opts.dotenv); err != nil {
		return nil, app.Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	mode := "quiet"
	if opts.verbose {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, app.Config{}, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := app.LoadConfig(log)
	if err != nil {
		return nil, app.Config{}, err
	}
	cfg.MetricsEnabled = false
	cfg.Otel.Enabled = false
	return log, cfg, nil
}

// withApp runs fn against a fully wired application.
func withApp(opts *rootOptions, fn func(a *app.App) error) error {
	log, cfg, err := bootstrap(opts)
	if err != nil {
		return err
	}
	a, err := app.Build(log, cfg)
	if err != nil {
		log.Sync()
		return err
	}
	defer a.Close()
	return fn(a)
}
