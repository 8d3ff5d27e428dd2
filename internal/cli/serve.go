package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flightsizer/internal/api"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxTrials int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve flight sizing and simulations over HTTP until interrupted.

Routes:
  GET  /healthz
  POST /v1/size
  POST /v1/simulate
  GET  /v1/simulate/chart`,
		Example: `  flightsizer serve
  flightsizer serve --addr 127.0.0.1:9000 --max-trials 50000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("max-trials") {
				maxTrials = c.cfg.Server.MaxTrials
			}

			cc, err := c.newCache(cmd.Context(), noCache)
			if err != nil {
				return err
			}

			srv := api.New(api.Config{
				Cache:        cc,
				Logger:       c.Logger,
				MaxTrials:    maxTrials,
				MaxDimension: c.cfg.Server.MaxDimension,
				TTL:          c.cfg.Cache.TTL,
				Defaults:     c.cfg.SimulationOptions(),
			})
			defer srv.Close()

			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVar(&maxTrials, "max-trials", 0, "maximum trials per request (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
