package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flightsizer/pkg/chart"
	"github.com/matzehuels/flightsizer/pkg/errors"
	fsio "github.com/matzehuels/flightsizer/pkg/io"
	"github.com/matzehuels/flightsizer/pkg/simulation"
)

// plotCommand creates the plot command for charting a saved simulation.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		output string
		format string
		bins   int
		title  string
	)

	cmd := &cobra.Command{
		Use:   "plot <result.json|trials.csv>",
		Short: "Chart the total-moves distribution of a saved simulation",
		Long: `Chart the distribution of total moves from a simulation result (JSON) or a
per-trial CSV file. The chart shows a density histogram with the fitted
normal curve; HTML output is interactive.`,
		Example: `  flightsizer plot result.json
  flightsizer plot trials.csv -o moves.html
  flightsizer plot result.json --bins 40 --title "Twelve by four"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			trials, err := readTrials(input)
			if err != nil {
				return err
			}

			if output == "" {
				ext := format
				if ext == "" {
					ext = chart.FormatPNG
				}
				output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
			}

			opts := c.cfg.Chart
			if bins != 0 {
				opts.Bins = bins
			}
			if title != "" {
				opts.Title = title
			}

			res := simulation.Result{Trials: trials}
			prog := newProgress(c.Logger)
			if err := c.writeChart(res.Totals(), opts, output, format); err != nil {
				return err
			}
			prog.done("Rendered chart")

			c.printSuccess("Chart of %d trials", len(trials))
			c.printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "png, svg, pdf or html (default from --output extension, else png)")
	cmd.Flags().IntVar(&bins, "bins", 0, "histogram bins (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "chart title (default shows the fit)")

	return cmd
}

// readTrials loads trials from a result JSON file or a trials CSV file.
func readTrials(path string) ([]simulation.Trial, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return fsio.ImportTrialsCSV(path)
	}
	res, err := fsio.ImportResult(path)
	if err != nil {
		return nil, err
	}
	return res.Trials, nil
}

// formatFromPath infers a chart format from the file extension, defaulting
// to PNG.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if slices.Contains(chart.Formats, ext) {
		return ext
	}
	return chart.FormatPNG
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
