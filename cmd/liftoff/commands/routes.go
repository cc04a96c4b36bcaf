package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/liftoff"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Finalize the service and print its routes and catchers",
	RunE:  runRoutes,
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	b := build(liftoff.WithLogOutput(cmd.ErrOrStderr()))
	f, err := b.Finalize(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range f.Router().Routes() {
		fmt.Fprintln(out, r)
	}
	for _, c := range f.Router().Catchers() {
		fmt.Fprintln(out, c)
	}
	return nil
}
