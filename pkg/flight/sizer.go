package flight

import "slices"

// Tap is the outcome of one taller-tap comparison. Before is a snapshot of
// the sequence as it stood before the comparison and After is the sequence
// once the two airmen have (or have not) traded places. The two slices never
// share storage.
type Tap struct {
	Before []float64
	After  []float64
	I, J   int
}

// Moved reports whether the tap traded the two airmen.
func (t Tap) Moved() bool {
	return t.Before[t.I] != t.After[t.I] || t.Before[t.J] != t.After[t.J]
}

// TallerTap compares the airman at position i with the airman at position j
// and trades them when the one at i is strictly taller. Equal heights never
// trade. When sizing, i is the back position and j the position directly in
// front of it, so the taller airman moves toward the front.
//
// seq is not modified. TallerTap panics if i or j is out of range.
func TallerTap(seq []float64, i, j int) Tap {
	before := slices.Clone(seq)
	after := slices.Clone(seq)
	if v1, v2 := seq[i], seq[j]; v1 > v2 {
		after[i], after[j] = v2, v1
	}
	return Tap{Before: before, After: after, I: i, J: j}
}

// SizeElement sizes one element (or rank) with repeated taller-tap passes and
// returns the sized sequence, tallest first, together with the number of
// moves it took.
//
// Every call makes exactly r passes of r-1 comparisons from the back of the
// line to the front, where r = len(seq), whether or not the line is already
// in order. A comparison counts as a move only when it trades two airmen, so
// the move count is the number of inversions in seq and never exceeds
// r(r-1)/2.
//
// seq is not modified.
func SizeElement(seq []float64) ([]float64, int) {
	r := len(seq)
	l := make([]float64, r)
	copy(l, seq)
	moves := 0
	for range r {
		for k := 1; k < r; k++ {
			tap := TallerTap(l, r-k, r-k-1)
			if tap.Moved() {
				moves++
			}
			l = tap.After
		}
	}
	return l, moves
}

// Result is the outcome of sizing a flight.
type Result struct {
	// Sized is the fully sized flight in its original orientation.
	Sized *Grid

	// PrimaryMoves counts the trades made while sizing the elements.
	PrimaryMoves int

	// SecondaryMoves counts the trades made while sizing the ranks after
	// the facing movement.
	SecondaryMoves int

	// TotalMoves is always PrimaryMoves + SecondaryMoves.
	TotalMoves int
}

// Trace extends [Result] with the flight as it stood between the two phases.
type Trace struct {
	Result

	// Unsized is a copy of the flight before sizing.
	Unsized *Grid

	// AfterPrimary is the flight after primary sizing, in its original
	// orientation.
	AfterPrimary *Grid
}

// Size runs the full sizing drill on g and returns the sized flight and the
// move counts. g is not modified.
//
// The drill has four steps, executed once:
//  1. Primary sizing: every element is sized with [SizeElement].
//  2. Facing movement: the flight is transposed so ranks become elements.
//  3. Secondary sizing: every former rank is sized with [SizeElement].
//  4. Facing movement back to the original orientation.
func Size(g *Grid) Result {
	return SizeWithTrace(g).Result
}

// SizeWithTrace is like [Size] but also returns the unsized flight and the
// flight after primary sizing.
func SizeWithTrace(g *Grid) Trace {
	work := g.Copy()
	primary := sizeAll(work)
	afterPrimary := work.Copy()

	work = work.Transpose()
	secondary := sizeAll(work)
	work = work.Transpose()

	return Trace{
		Result: Result{
			Sized:          work,
			PrimaryMoves:   primary,
			SecondaryMoves: secondary,
			TotalMoves:     primary + secondary,
		},
		Unsized:      g.Copy(),
		AfterPrimary: afterPrimary,
	}
}

// sizeAll sizes every element of g in place and returns the total moves.
func sizeAll(g *Grid) int {
	moves := 0
	for e := range g.Elements() {
		sized, m := SizeElement(g.cells[e])
		g.setElement(e, sized)
		moves += m
	}
	return moves
}
