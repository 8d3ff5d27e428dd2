package flight

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/flightsizer/pkg/errors"
)

// Default flight dimensions: 12 ranks deep, 4 elements wide.
const (
	DefaultRanks    = 12
	DefaultElements = 4
)

// FillFunc produces one height each time it is called. It is used by [New]
// to populate every cell of a grid.
type FillFunc func() float64

// Grid is a rectangular flight of heights stored element by element. Every
// element holds the same number of ranks for the lifetime of the grid.
//
// The zero value is an empty grid; use [New] or [FromElements] to build one.
type Grid struct {
	cells [][]float64 // cells[element][rank]
}

// New builds a grid of ranks x elements heights by calling fill once for
// every cell, element by element from the front rank to the back.
//
// New returns an INVALID_DIMENSIONS error if either dimension is not positive
// or fill is nil, and an INVALID_GRID error if fill produces NaN or an
// infinite value.
func New(ranks, elements int, fill FillFunc) (*Grid, error) {
	if err := errors.ValidateDimensions(ranks, elements); err != nil {
		return nil, err
	}
	if fill == nil {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "fill function is required")
	}

	cells := make([][]float64, elements)
	for e := range cells {
		cells[e] = make([]float64, ranks)
		for r := range cells[e] {
			v := fill()
			if !isFinite(v) {
				return nil, errors.New(errors.ErrCodeInvalidGrid, "element %d rank %d: height %v is not finite", e, r, v)
			}
			cells[e][r] = v
		}
	}
	return &Grid{cells: cells}, nil
}

// FromElements builds a grid from explicit heights, one inner slice per
// element. The input is copied, so later changes by the caller do not affect
// the grid.
//
// FromElements returns an INVALID_GRID error if elements is empty, if any
// element is empty or has a different length than the first, or if any
// height is NaN or infinite. Grids larger than errors.MaxDimension in either
// direction are rejected with INVALID_DIMENSIONS.
func FromElements(elements [][]float64) (*Grid, error) {
	if len(elements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must have at least one element")
	}
	ranks := len(elements[0])
	if ranks == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must have at least one rank")
	}
	if err := errors.ValidateDimensions(ranks, len(elements)); err != nil {
		return nil, err
	}

	cells := make([][]float64, len(elements))
	for e, elem := range elements {
		if len(elem) != ranks {
			return nil, errors.New(errors.ErrCodeInvalidGrid,
				"element %d has %d ranks, want %d (grid must be rectangular)", e, len(elem), ranks)
		}
		for r, v := range elem {
			if !isFinite(v) {
				return nil, errors.New(errors.ErrCodeInvalidGrid, "element %d rank %d: height %v is not finite", e, r, v)
			}
		}
		cells[e] = slices.Clone(elem)
	}
	return &Grid{cells: cells}, nil
}

// MustFromElements is like [FromElements] but panics on invalid input.
// It is intended for tests and literal grids known to be valid.
func MustFromElements(elements [][]float64) *Grid {
	g, err := FromElements(elements)
	if err != nil {
		panic(err)
	}
	return g
}

// Elements returns the number of elements (columns).
func (g *Grid) Elements() int { return len(g.cells) }

// Ranks returns the number of ranks (rows).
func (g *Grid) Ranks() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

// Size returns the number of airmen in the grid.
func (g *Grid) Size() int { return g.Elements() * g.Ranks() }

// At returns the height at the given element and rank.
// It panics if either index is out of range.
func (g *Grid) At(element, rank int) float64 {
	return g.cells[element][rank]
}

// Element returns a copy of one element, front rank first.
func (g *Grid) Element(e int) []float64 {
	return slices.Clone(g.cells[e])
}

// Rank returns a copy of one rank, first element first.
func (g *Grid) Rank(r int) []float64 {
	out := make([]float64, len(g.cells))
	for e := range g.cells {
		out[e] = g.cells[e][r]
	}
	return out
}

// ToElements returns a deep copy of the heights, one slice per element.
func (g *Grid) ToElements() [][]float64 {
	out := make([][]float64, len(g.cells))
	for e := range g.cells {
		out[e] = slices.Clone(g.cells[e])
	}
	return out
}

// Values returns every height flattened element by element.
func (g *Grid) Values() []float64 {
	out := make([]float64, 0, g.Size())
	for _, elem := range g.cells {
		out = append(out, elem...)
	}
	return out
}

// Copy returns a fully independent duplicate of g.
func (g *Grid) Copy() *Grid {
	return &Grid{cells: g.ToElements()}
}

// Transpose performs a facing movement: element c, rank r of the result is
// element r, rank c of g. Ranks become elements and elements become ranks.
// Non-square grids are supported, and transposing twice yields a grid equal
// to g. The receiver is not modified.
func (g *Grid) Transpose() *Grid {
	elements, ranks := g.Elements(), g.Ranks()
	cells := make([][]float64, ranks)
	for r := range cells {
		cells[r] = make([]float64, elements)
		for e := range elements {
			cells[r][e] = g.cells[e][r]
		}
	}
	return &Grid{cells: cells}
}

// Equal reports whether g and other have the same shape and heights.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return slices.EqualFunc(g.cells, other.cells, func(a, b []float64) bool {
		return slices.Equal(a, b)
	})
}

// String renders the grid rank by rank, front rank first, one line per rank.
func (g *Grid) String() string {
	var b strings.Builder
	for r := range g.Ranks() {
		for e := range g.Elements() {
			if e > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%6.1f", g.cells[e][r])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// setElement replaces element e with seq. Callers must pass a slice of the
// grid's rank count that is not shared with any other grid.
func (g *Grid) setElement(e int, seq []float64) {
	g.cells[e] = seq
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
