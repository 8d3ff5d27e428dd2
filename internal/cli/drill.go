package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// drillCommand creates the drill command for stepping through a sizing.
func (c *CLI) drillCommand() *cobra.Command {
	var flags flightFlags

	cmd := &cobra.Command{
		Use:   "drill [flight.json]",
		Short: "Step through the sizing drill tap by tap",
		Long: `Replay the sizing drill in the terminal one taller-tap at a time. The two
airmen being compared are highlighted and the running move count is shown.

The flight is read from a JSON file or drawn at random, as for size.`,
		Example: `  flightsizer drill flight.json
  flightsizer drill --ranks 4 --elements 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadFlight(cmd, args, flags)
			if err != nil {
				return err
			}

			m := NewDrillModel(g)
			c.Logger.Debug("starting drill", "taps", len(m.Steps))

			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(c.out),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}

			if dm, ok := final.(DrillModel); ok && dm.Done() && len(dm.Steps) > 0 {
				c.printSuccess("Flight sized in %d moves", dm.Steps[len(dm.Steps)-1].Moves)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
