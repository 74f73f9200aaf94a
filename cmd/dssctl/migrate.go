package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/wellbeing-backend/internal/app"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, cfg, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer log.Sync()
			cfg.AutoMigrate = true
			store, err := app.OpenStore(log, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s store\n", store.Driver())
			return nil
		},
	}
}
