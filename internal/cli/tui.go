package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flightsizer/pkg/flight"
)

var (
	drillDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	drillMovedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	drillStillStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// DrillModel - Interactive tap-by-tap replay
// =============================================================================

// DrillModel is the bubbletea model that steps through a sizing drill.
// Cursor -1 shows the unsized flight; Cursor i shows the flight after Steps[i].
type DrillModel struct {
	Unsized *flight.Grid
	Steps   []flight.Step
	Cursor  int
}

// NewDrillModel creates a drill model positioned before the first tap.
func NewDrillModel(g *flight.Grid) DrillModel {
	return DrillModel{
		Unsized: g.Copy(),
		Steps:   flight.Replay(g),
		Cursor:  -1,
	}
}

func (m DrillModel) Init() tea.Cmd {
	return nil
}

func (m DrillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", " ", "right", "l":
			m = m.next()
		case "b", "left", "h":
			if m.Cursor >= 0 {
				m.Cursor--
			}
		case "m":
			m = m.nextMove()
		case "p":
			m = m.endOfPhase()
		case "g", "home":
			m.Cursor = -1
		case "G", "end":
			m.Cursor = len(m.Steps) - 1
		}
	}
	return m, nil
}

// next advances one tap.
func (m DrillModel) next() DrillModel {
	if m.Cursor < len(m.Steps)-1 {
		m.Cursor++
	}
	return m
}

// nextMove advances to the next tap that trades two airmen, or to the end.
func (m DrillModel) nextMove() DrillModel {
	for m.Cursor < len(m.Steps)-1 {
		m.Cursor++
		if m.Steps[m.Cursor].Tap.Moved() {
			break
		}
	}
	return m
}

// endOfPhase advances to the last tap of the current phase. At the end of a
// phase it advances to the end of the next one.
func (m DrillModel) endOfPhase() DrillModel {
	if m.Cursor >= len(m.Steps)-1 {
		return m
	}
	phase := m.Steps[m.Cursor+1].Phase
	for m.Cursor < len(m.Steps)-1 && m.Steps[m.Cursor+1].Phase == phase {
		m.Cursor++
	}
	return m
}

// Done reports whether the drill has reached its last tap.
func (m DrillModel) Done() bool {
	return m.Cursor == len(m.Steps)-1
}

func (m DrillModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sizing Drill"))
	b.WriteString("\n")
	b.WriteString(drillDimStyle.Render("n/space next tap  m next move  p end of phase  b back  q quit"))
	b.WriteString("\n\n")

	if m.Cursor < 0 {
		b.WriteString(renderGrid("Unsized", m.Unsized, nil))
		b.WriteString("\n\n")
		b.WriteString(drillDimStyle.Render(fmt.Sprintf("  [0/%d] taps", len(m.Steps))))
		b.WriteString("\n")
		return b.String()
	}

	s := m.Steps[m.Cursor]
	title := fmt.Sprintf("%s sizing, %s %d", titleCase(s.Phase.String()), lineName(s.Phase), s.Line+1)
	b.WriteString(renderGrid(title, s.Flight, tapCells(s)))
	b.WriteString("\n\n")

	status := drillStillStyle.Render("no trade")
	if s.Tap.Moved() {
		status = drillMovedStyle.Render("traded")
	}
	fmt.Fprintf(&b, "  positions %d and %d: %s\n", s.Tap.J+1, s.Tap.I+1, status)
	fmt.Fprintf(&b, "  moves so far: %s\n", StyleNumber.Render(fmt.Sprint(s.Moves)))
	b.WriteString(drillDimStyle.Render(fmt.Sprintf("  [%d/%d] taps", m.Cursor+1, len(m.Steps))))
	if m.Done() {
		b.WriteString("  ")
		b.WriteString(StyleSuccess.Render("flight sized"))
	}
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// tapCells returns the two compared cells of a step in {element, rank} form.
func tapCells(s flight.Step) map[[2]int]bool {
	if s.Phase == flight.PhaseSecondary {
		return map[[2]int]bool{{s.Tap.I, s.Line}: true, {s.Tap.J, s.Line}: true}
	}
	return map[[2]int]bool{{s.Line, s.Tap.I}: true, {s.Line, s.Tap.J}: true}
}

func lineName(p flight.Phase) string {
	if p == flight.PhaseSecondary {
		return "rank"
	}
	return "element"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
