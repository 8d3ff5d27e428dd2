package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flightsizer/pkg/flight"
	"github.com/matzehuels/flightsizer/pkg/stats"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
	styleTableLabel  = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	styleMoved       = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func (c *CLI) printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message to the error stream.
func (c *CLI) printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.errOut, styleIconError.Render(iconError)+" "+msg)
}

// printInfo prints an info/status message.
func (c *CLI) printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func (c *CLI) printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func (c *CLI) printFile(path string) {
	fmt.Fprintln(c.out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func (c *CLI) printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(c.out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func (c *CLI) printNextStep(description, cmd string) {
	fmt.Fprintln(c.out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func (c *CLI) printNewline() {
	fmt.Fprintln(c.out)
}

// =============================================================================
// Stats Display
// =============================================================================

// printRunStats prints run statistics on a single line.
func (c *CLI) printRunStats(trials int, id string, cached bool) {
	parts := []string{fmt.Sprintf("%d trials", trials), "run " + shortID(id)}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(c.out, line)
}

// printReport prints the move summaries as a table followed by the fit.
func (c *CLI) printReport(r stats.Report) {
	row := func(name string, s stats.Summary) []string {
		return []string{name, ff(s.Mean, 2), ff(s.StdDev, 2), ff(s.Min, 0), ff(s.Max, 0)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Moves", "Mean", "Std dev", "Min", "Max").
		Rows(
			row("primary", r.Primary),
			row("secondary", r.Secondary),
			row("total", r.Total),
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 0:
				return styleTableLabel
			default:
				return styleTableCell
			}
		})
	fmt.Fprintln(c.out, t.Render())

	c.printKeyValue("Normal fit", fmt.Sprintf("mu %.2f, sigma %.2f", r.Fit.Mu, r.Fit.Sigma))
	corr := "undefined"
	if !math.IsNaN(r.Correlation) {
		corr = ff(r.Correlation, 3)
	}
	c.printKeyValue("Correlation", corr+StyleDim.Render(" (primary vs secondary)"))
}

// =============================================================================
// Grid Display
// =============================================================================

// renderGrid draws g as a table with one row per rank, front rank first.
// Cells listed in highlight are emphasized.
func renderGrid(title string, g *flight.Grid, highlight map[[2]int]bool) string {
	headers := make([]string, g.Elements()+1)
	headers[0] = "Rank"
	for e := range g.Elements() {
		headers[e+1] = "E" + strconv.Itoa(e+1)
	}
	rows := make([][]string, g.Ranks())
	for r := range g.Ranks() {
		row := make([]string, g.Elements()+1)
		row[0] = strconv.Itoa(r + 1)
		for e := range g.Elements() {
			row[e+1] = ff(g.At(e, r), 1)
		}
		rows[r] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 0:
				return styleTableLabel
			case highlight[[2]int{col - 1, row}]:
				return styleMoved
			default:
				return styleTableCell
			}
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}

// =============================================================================
// Utilities
// =============================================================================

func ff(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
