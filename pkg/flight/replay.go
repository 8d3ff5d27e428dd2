package flight

// Phase is one half of the sizing drill.
type Phase int

const (
	// PhasePrimary sizes each element front to back.
	PhasePrimary Phase = iota
	// PhaseSecondary sizes each rank after the facing movement.
	PhaseSecondary
)

func (p Phase) String() string {
	switch p {
	case PhasePrimary:
		return "primary"
	case PhaseSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Step is a single taller-tap of the drill as seen from outside the flight.
type Step struct {
	Phase Phase

	// Line is the element being sized in the primary phase, or the rank
	// being sized in the secondary phase.
	Line int

	Tap Tap

	// Moves counts the trades made so far, including this tap.
	Moves int

	// Flight is the whole flight after this tap, in its original
	// orientation.
	Flight *Grid
}

// Replay returns every tap [Size] performs on g, in order. The last step's
// Flight equals the sized flight and its Moves equals TotalMoves. A flight
// with a single rank and a single element has no taps.
func Replay(g *Grid) []Step {
	var steps []Step
	moves := 0

	run := func(work *Grid, phase Phase, orient func(*Grid) *Grid) {
		r := work.Ranks()
		for e := range work.Elements() {
			l := work.Element(e)
			for range r {
				for k := 1; k < r; k++ {
					tap := TallerTap(l, r-k, r-k-1)
					if tap.Moved() {
						moves++
					}
					l = tap.After
					work.setElement(e, tap.After)
					steps = append(steps, Step{
						Phase:  phase,
						Line:   e,
						Tap:    tap,
						Moves:  moves,
						Flight: orient(work),
					})
				}
			}
		}
	}

	work := g.Copy()
	run(work, PhasePrimary, (*Grid).Copy)
	work = work.Transpose()
	run(work, PhaseSecondary, (*Grid).Transpose)
	return steps
}
