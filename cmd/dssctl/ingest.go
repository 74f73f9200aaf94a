package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/wellbeing-backend/internal/app"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

func newIngestCmd(opts *rootOptions) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Import survey CSV files",
		Long: `Import one or more CSV files. Each file is written as its own atomic
batch; files are processed concurrently. Records already present are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				return ingestFiles(cmd, a.Services.Ingestion, args, parallel)
			})
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "maximum files imported at once")
	return cmd
}

func ingestFiles(cmd *cobra.Command, svc services.IngestionService, paths []string, parallel int) error {
	g, ctx := errgroup.WithContext(cmd.Context())
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	var mu sync.Mutex
	out := cmd.OutOrStdout()
	for _, path := range paths {
		path := path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res, err := svc.Ingest(ctx, services.Upload{FileName: filepath.Base(path), Data: data})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			fmt.Fprintf(out, "%s: inserted=%d schema=%s\n", path, res.Inserted, res.Schema)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
