// Package commands implements the CLI of the liftoff demo service.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"

	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "liftoff",
	Short: "Liftoff demo service",
	Long: `Liftoff runs a small HTTP service built on the liftoff lifecycle core.

Configuration is read from .env, LIFTOFF_ environment variables and an
optional YAML, TOML or JSON file given with --config. Environment variables
take precedence over the file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(versionCmd)
}
