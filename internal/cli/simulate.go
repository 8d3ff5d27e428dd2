package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flightsizer/pkg/chart"
	fsio "github.com/matzehuels/flightsizer/pkg/io"
	"github.com/matzehuels/flightsizer/pkg/simulation"
)

// simulateFlags holds flags for the simulate command.
type simulateFlags struct {
	trials   int
	seed     uint64
	workers  int
	ranks    int
	elements int
	output   string
	csv      string
	chart    string
	format   string
	bins     int
	noCache  bool
	refresh  bool
}

// simulateCommand creates the simulate command for Monte Carlo runs.
func (c *CLI) simulateCommand() *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate many random flights and summarize the moves",
		Long: `Simulate many random flights, size each one and summarize the primary,
secondary and total move counts. The totals are fitted with a normal
distribution.

Identical runs are served from the cache; use --refresh to recompute or
--no-cache to bypass the cache entirely.`,
		Example: `  flightsizer simulate
  flightsizer simulate --trials 100000 --workers 8 -o result.json
  flightsizer simulate --csv trials.csv --chart moves.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.cfg.SimulationOptions()
			if cmd.Flags().Changed("trials") {
				opts.Trials = flags.trials
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = flags.seed
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = flags.workers
			}
			if cmd.Flags().Changed("ranks") {
				opts.Ranks = flags.ranks
			}
			if cmd.Flags().Changed("elements") {
				opts.Elements = flags.elements
			}
			opts.Refresh = flags.refresh
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runSimulate(cmd, opts, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.trials, "trials", "n", 0, "number of flights to simulate (default from config)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "goroutines running trials (default from config)")
	cmd.Flags().IntVar(&flags.ranks, "ranks", 0, "ranks per flight (default from config)")
	cmd.Flags().IntVar(&flags.elements, "elements", 0, "elements per flight (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result as JSON to this file")
	cmd.Flags().StringVar(&flags.csv, "csv", "", "write per-trial move counts as CSV to this file")
	cmd.Flags().StringVar(&flags.chart, "chart", "", "render the total-moves distribution to this file")
	cmd.Flags().StringVar(&flags.format, "format", "", "chart format: png, svg, pdf, html (default from --chart extension)")
	cmd.Flags().IntVar(&flags.bins, "bins", 0, "histogram bins (default from config)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, opts simulation.Options, flags simulateFlags) error {
	ctx := cmd.Context()

	copts := c.cfg.Chart
	if flags.bins != 0 {
		copts.Bins = flags.bins
	}
	if err := copts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := c.newSpinner(ctx, fmt.Sprintf("Simulating %d flights...", opts.Trials))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.Stop()

	c.printReport(res.Summary)
	c.printRunStats(len(res.Trials), res.ID, res.CacheHit)

	var files []string
	if flags.output != "" {
		if err := fsio.ExportResult(res, flags.output); err != nil {
			return err
		}
		files = append(files, flags.output)
	}
	if flags.csv != "" {
		if err := fsio.ExportTrialsCSV(res.Trials, flags.csv); err != nil {
			return err
		}
		files = append(files, flags.csv)
	}
	if flags.chart != "" {
		if err := c.writeChart(res.Totals(), copts, flags.chart, flags.format); err != nil {
			return err
		}
		files = append(files, flags.chart)
	}

	if len(files) > 0 {
		c.printNewline()
		c.printSuccess("Saved %d file(s)", len(files))
		for _, f := range files {
			c.printFile(f)
		}
	}
	if flags.output != "" && flags.chart == "" {
		c.printNewline()
		c.printNextStep("Plot", fmt.Sprintf("%s plot %s", appName, flags.output))
	}
	return nil
}

// writeChart renders totals to path. An empty format is inferred from the
// file extension.
func (c *CLI) writeChart(totals []float64, opts chart.Options, path, format string) error {
	if format == "" {
		format = formatFromPath(path)
	}
	data, err := chart.Render(totals, opts, format)
	if err != nil {
		return err
	}
	c.Logger.Debug("rendered chart", "format", format, "bytes", len(data))
	return writeFile(path, data)
}
