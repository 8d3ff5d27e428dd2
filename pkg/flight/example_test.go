package flight_test

import (
	"fmt"

	"github.com/matzehuels/flightsizer/pkg/flight"
)

func ExampleSizeElement() {
	sized, moves := flight.SizeElement([]float64{2, 4})
	fmt.Println(sized, moves)
	// Output:
	// [4 2] 1
}

func ExampleTallerTap() {
	tap := flight.TallerTap([]float64{68, 71}, 1, 0)
	fmt.Println(tap.Before, tap.After, tap.Moved())
	// Output:
	// [68 71] [71 68] true
}

func ExampleSize() {
	// Two elements of two ranks each.
	g := flight.MustFromElements([][]float64{{3, 1}, {2, 4}})
	res := flight.Size(g)

	fmt.Println("Primary:", res.PrimaryMoves)
	fmt.Println("Secondary:", res.SecondaryMoves)
	fmt.Println("Total:", res.TotalMoves)
	fmt.Println("Sized:", res.Sized.ToElements())
	// Output:
	// Primary: 1
	// Secondary: 2
	// Total: 3
	// Sized: [[4 2] [3 1]]
}

func ExampleGrid_Transpose() {
	g := flight.MustFromElements([][]float64{{1, 2, 3}, {4, 5, 6}})
	fmt.Println(g.Transpose().ToElements())
	// Output:
	// [[1 4] [2 5] [3 6]]
}
