// Package cmd - serve command
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pajakin/api"
	"pajakin/internal/config"
	"pajakin/internal/logging"
	"pajakin/internal/version"
)

// serveCmd starts the HTTP API
func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Start the JSON API:

  POST /calculate          category, incomes, deductions, occupational_cost
  POST /brackets/compute   taxable_income
  GET  /brackets
  GET  /categories[/{code}]
  GET  /health, /version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			eng, err := newEngine()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.NewServer(cfg, eng, version.Version, logging.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
