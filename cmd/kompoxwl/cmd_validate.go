package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yaegashi/kompoxwl/usecase/workload"
)

func newCmdValidate() *cobra.Command {
	var file string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate Workload documents",
		Long:  "Load Workload documents from a file or directory and build every workload without rendering.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "workload.validate", file)
			defer func() { cleanup(err) }()

			u, err := buildWorkloadUseCase(cmd, false)
			if err != nil {
				return err
			}
			out, err := u.Validate(ctx, &workload.ValidateInput{Path: file})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				for _, name := range out.Workloads {
					fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\n", name)
				}
				for _, e := range out.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "error\t%s\n", e)
				}
			}
			if len(out.Errors) > 0 {
				return fmt.Errorf("%d validation error(s)", len(out.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", ".", "Workload document file or directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
