package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/yaegashi/kompoxwl/usecase/workload"
)

func newCmdHistory() *cobra.Command {
	var name string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "release.list", name)
			defer func() { cleanup(err) }()

			u, err := buildWorkloadUseCase(cmd, true)
			if err != nil {
				return err
			}
			out, err := u.History(ctx, &workload.HistoryInput{Workload: name})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, rel := range out.Releases {
					// Manifest is available via "history show".
					it := *rel
					it.Manifest = ""
					if err := enc.Encode(it); err != nil {
						return err
					}
				}
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWORKLOAD\tNAMESPACE\tHASH\tCREATED")
			for _, rel := range out.Releases {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rel.ID, rel.Workload, rel.Namespace, rel.Hash, rel.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&name, "workload", "w", "", "Filter by workload name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per release")
	cmd.AddCommand(newCmdHistoryShow())
	return cmd
}

func newCmdHistoryShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the manifest of a recorded release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "release.show", args[0])
			defer func() { cleanup(err) }()

			u, err := buildWorkloadUseCase(cmd, true)
			if err != nil {
				return err
			}
			out, err := u.Show(ctx, &workload.ShowInput{ID: args[0]})
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out.Release.Manifest)
			return err
		},
	}
}
