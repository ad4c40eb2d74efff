// Package cmd provides the CLI commands for pajakin.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pajakin/internal/config"
	"pajakin/internal/logging"
	"pajakin/internal/version"
)

var (
	cfgFile string
	verbose bool
)

// newRootCmd builds the command tree; tests build a fresh one per case
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pajakin",
		Short: "Calculate Indonesian PPh 21 income tax",
		Long: `pajakin computes annual and monthly PPh 21 income tax using the
progressive bracket schedule and PTKP non-taxable thresholds.

Income and deduction lines are given as amount[xN], where N is how many
times the amount occurs in a year.

Examples:
  pajakin calculate --category TK/0 --income 10000000x12
  pajakin calculate --profile me.hcl --format pdf --out pph21.pdf
  pajakin tax 100000000
  pajakin serve --addr :8080`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON or YAML; PAJAKIN_* env vars override)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(taxCmd())
	rootCmd.AddCommand(bracketsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return newRootCmd().Execute()
}

func initConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	config.Set(cfg)
	logging.Debug("config loaded")
	return nil
}

// versionCmd prints version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pajakin version %s\n", version.Version)
		},
	}
}
