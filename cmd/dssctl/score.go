package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/wellbeing-backend/internal/app"
	"github.com/yungbote/wellbeing-backend/internal/pkg/pointers"
)

func newScoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Print every student with risk score and segment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(a *app.App) error {
				rows, err := a.Services.Student.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tGENDER\tSCORE\tSEGMENT")
				for _, s := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", s.ID, s.Name, pointers.Deref(s.Gender, "-"), s.Score, s.Segment)
				}
				return tw.Flush()
			})
		},
	}
}
