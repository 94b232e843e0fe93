// Package main provides the vibe-trace command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vibe-trace",
		Short: "Query recorded trace spans",
		Long: `vibe-trace runs declarative queries over recorded system-trace spans.

Spans are stored in a DuckDB file, grouped into named tracks. The
intersect command finds every time window where one span from each of
the given tracks was active at the same time.`,
		Example: `  # Load spans from CSV files (one-time setup)
  vibe-trace load trace.duckdb cpu cpu.csv
  vibe-trace load trace.duckdb gpu gpu.csv

  # Find windows where both tracks had an active span
  vibe-trace intersect trace.duckdb cpu gpu`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newIntersectCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads ~/.vibe-trace.yaml if present and installs defaults.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".vibe-trace")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("intersect.workers", 0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// newLogger builds the CLI logger.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
