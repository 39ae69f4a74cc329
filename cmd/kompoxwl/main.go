package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/yaegashi/kompoxwl/internal/logging"
)

// logOutput is the destination opened by PersistentPreRunE and closed by main.
var logOutput *logging.Output

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kompoxwl",
		Short:   "Kompox workload CLI",
		Long:    "Kompox workload CLI: validate Workload documents and render them to Kubernetes manifests.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultDB := os.Getenv("KOMPOXWL_DB_URL")
	if defaultDB == "" {
		defaultDB = "sqlite:"
	}
	cmd.PersistentFlags().String("db-url", defaultDB, "Release database URL (env KOMPOXWL_DB_URL) (sqlite:/path/to.db | redis://host:6379/0 | mem:)")
	cmd.PersistentFlags().String("log-format", "human", "Log format (human|text|json) (env KOMPOXWL_LOG_FORMAT)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error) (env KOMPOXWL_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-output", "-", "Log destination (-: stderr, none, or a file path) (env KOMPOXWL_LOG_OUTPUT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format := flagOrEnv(c, "log-format", "KOMPOXWL_LOG_FORMAT")
		level, err := logging.ParseLevel(flagOrEnv(c, "log-level", "KOMPOXWL_LOG_LEVEL"))
		if err != nil {
			return err
		}
		out, err := logging.OpenOutput(flagOrEnv(c, "log-output", "KOMPOXWL_LOG_OUTPUT"))
		if err != nil {
			return fmt.Errorf("log output: %w", err)
		}
		logOutput = out
		l, err := logging.NewWithWriter(format, level, out.Writer())
		if err != nil {
			return err
		}
		l = l.With("runId", uuid.NewString())
		c.SetContext(logging.WithLogger(c.Context(), l))
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdValidate())
	cmd.AddCommand(newCmdRender())
	cmd.AddCommand(newCmdHistory())
	return cmd
}

// flagOrEnv returns the flag value, overridden by the environment variable when set.
func flagOrEnv(cmd *cobra.Command, flag, env string) string {
	v, _ := cmd.Flags().GetString(flag)
	if e := os.Getenv(env); e != "" {
		v = e
	}
	return v
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
	}
	if logOutput != nil {
		_ = logOutput.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
