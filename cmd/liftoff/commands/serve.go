package commands

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/liftoff"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the service until it is asked to stop",
	Long: `Run the service on the configured endpoints.

Shutdown starts on SIGTERM or Ctrl-C (see LIFTOFF_SHUTDOWN_SIGNALS and
LIFTOFF_SHUTDOWN_CTRLC) and waits for in-flight requests within the grace
and mercy periods.

Examples:
  # Serve on the default endpoint
  liftoff serve

  # Serve on two endpoints
  LIFTOFF_ENDPOINTS=127.0.0.1:8000,unix:/tmp/liftoff.sock liftoff serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	b := build(liftoff.WithLogOutput(cmd.OutOrStdout()))
	_, err := liftoff.Launch(cmd.Context(), b)
	return err
}
