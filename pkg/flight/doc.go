// Package flight models a flight of airmen as a grid of heights and sizes it
// with the taller-tap method.
//
// # Overview
//
// A flight stands in elements (columns, side to side) and ranks (rows, front
// to back). Sizing arranges the airmen so that the tallest stand at the front
// of every element and at the first element of every rank. Airmen do this
// the slow way: each one taps the shoulder of the airman in front and the two
// trade places when the one behind is taller. This package reproduces that
// process exactly and counts every trade as a move.
//
// # Basic Usage
//
// Build a [Grid] with [New] (random fill) or [FromElements] (explicit
// heights), then call [Size]:
//
//	g, err := flight.New(12, 4, sampler.Height)
//	if err != nil {
//	    return err
//	}
//	res := flight.Size(g)
//	fmt.Println(res.PrimaryMoves, res.SecondaryMoves, res.TotalMoves)
//
// # Cost Model
//
// [SizeElement] always performs r outer passes of r-1 adjacent comparisons
// over an element of r airmen, even after the element is already in order.
// This fixed schedule is the cost model of the drill and must not be replaced
// by an early-exit sort. Only comparisons that actually trade two airmen are
// counted, so the move count equals the number of inversions in the element.
//
// # Phases
//
// [Size] runs primary sizing over every element, performs a facing movement
// (transpose), runs secondary sizing over every former rank, and faces back.
// The input grid is never modified.
//
// # Concurrency
//
// Grid values are not safe for concurrent mutation, but every operation in
// this package returns fresh grids and slices, so independent trials can run
// in parallel without coordination.
package flight
