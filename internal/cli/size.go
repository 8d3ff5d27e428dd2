package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flightsizer/pkg/flight"
	fsio "github.com/matzehuels/flightsizer/pkg/io"
	"github.com/matzehuels/flightsizer/pkg/sample"
)

// flightFlags holds the flags that select the flight to size.
type flightFlags struct {
	seed     uint64
	ranks    int
	elements int
}

func (f *flightFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for a generated flight (default from config)")
	cmd.Flags().IntVar(&f.ranks, "ranks", 0, "ranks of a generated flight (default from config)")
	cmd.Flags().IntVar(&f.elements, "elements", 0, "elements of a generated flight (default from config)")
}

// loadFlight reads the flight from the JSON file named in args, or draws a
// random flight from the configured population when no file is given.
func (c *CLI) loadFlight(cmd *cobra.Command, args []string, f flightFlags) (*flight.Grid, error) {
	if len(args) > 0 {
		for _, name := range []string{"seed", "ranks", "elements"} {
			if cmd.Flags().Changed(name) {
				c.Logger.Warn("flag ignored when a flight file is given", "flag", name)
			}
		}
		c.Logger.Debug("reading flight", "path", args[0])
		return fsio.ImportGrid(args[0])
	}

	seed, ranks, elements := c.cfg.Simulation.Seed, c.cfg.Flight.Ranks, c.cfg.Flight.Elements
	if cmd.Flags().Changed("seed") {
		seed = f.seed
	}
	if cmd.Flags().Changed("ranks") {
		ranks = f.ranks
	}
	if cmd.Flags().Changed("elements") {
		elements = f.elements
	}

	c.Logger.Debug("generating flight", "ranks", ranks, "elements", elements, "seed", seed)
	s := sample.NewSampler(c.cfg.Population, seed, 0)
	return flight.New(ranks, elements, s.Height)
}

// sizeCommand creates the size command for sizing a single flight.
func (c *CLI) sizeCommand() *cobra.Command {
	var (
		flags  flightFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "size [flight.json]",
		Short: "Size one flight and count its moves",
		Long: `Size one flight with the taller-tap drill and show it before sizing,
after primary sizing and fully sized, together with the move counts.

The flight is read from a JSON file of the form {"elements": [[...], ...]},
one inner list per element ordered from the front rank to the back. Without
a file a random flight is drawn from the configured population.`,
		Example: `  flightsizer size flight.json
  flightsizer size --ranks 6 --elements 3 --seed 7
  flightsizer size flight.json -o sized.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadFlight(cmd, args, flags)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			tr := flight.SizeWithTrace(g)
			prog.done("Sized flight")

			c.printTrace(tr)

			if output != "" {
				if err := fsio.ExportSizing(tr.Result, &tr, output); err != nil {
					return err
				}
				c.printNewline()
				c.printSuccess("Saved sizing")
				c.printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the sizing as JSON to this file")

	return cmd
}

// printTrace prints the three stages of a sizing and its move counts.
func (c *CLI) printTrace(tr flight.Trace) {
	fmt.Fprintln(c.out, renderGrid("Unsized", tr.Unsized, nil))
	c.printNewline()
	fmt.Fprintln(c.out, renderGrid("After primary sizing", tr.AfterPrimary, nil))
	c.printNewline()
	fmt.Fprintln(c.out, renderGrid("Sized", tr.Sized, nil))
	c.printNewline()
	c.printKeyValue("Primary", StyleNumber.Render(fmt.Sprint(tr.PrimaryMoves))+" moves")
	c.printKeyValue("Secondary", StyleNumber.Render(fmt.Sprint(tr.SecondaryMoves))+" moves")
	c.printKeyValue("Total", StyleNumber.Render(fmt.Sprint(tr.TotalMoves))+" moves")
}
