package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yaegashi/kompoxwl/usecase/workload"
)

func newCmdRender() *cobra.Command {
	var file, output string
	var record bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render Workload documents to Kubernetes manifests",
		Long:  "Render Workload documents to a multi-document YAML manifest. With --record, one release per workload is stored in the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "workload.render", file)
			defer func() { cleanup(err) }()

			u, err := buildWorkloadUseCase(cmd, record)
			if err != nil {
				return err
			}
			out, err := u.Render(ctx, &workload.RenderInput{Path: file, Record: record})
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), out.Manifest)
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			return os.WriteFile(output, []byte(out.Manifest), 0o644)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", ".", "Workload document file or directory")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Manifest output file (-: stdout)")
	cmd.Flags().BoolVar(&record, "record", false, "Record one release per workload")
	return cmd
}
