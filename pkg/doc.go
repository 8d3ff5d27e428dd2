// Package pkg provides the core libraries for flightsizer.
//
// # Overview
//
// Flightsizer models the taller-tap drill used to size a flight of airmen
// and counts how many trades the drill takes. The pkg directory is organized
// into these areas:
//
//  1. [flight] - Domain logic (grids, the taller-tap comparison, sizing)
//  2. [sample] - Height populations and reproducible samplers
//  3. [simulation] - Monte Carlo runs over many random flights
//  4. [stats] and [chart] - Summaries, normal fits and distribution charts
//  5. [cache], [observability], [errors], [io] - Infrastructure
//
// # Architecture
//
// The typical data flow through a simulation:
//
//	Population
//	     ↓
//	[sample] package (draw heights per trial)
//	     ↓
//	[flight] package (build grid, size it, count moves)
//	     ↓
//	[simulation] package (collect trials, cache results)
//	     ↓
//	[stats] / [chart] packages (summaries, PNG/SVG/PDF/HTML)
//
// # Quick Start
//
// Size a single flight:
//
//	g := flight.MustFromElements([][]float64{{3, 1}, {2, 4}})
//	res := flight.Size(g)
//	fmt.Println(res.PrimaryMoves, res.SecondaryMoves, res.TotalMoves) // 1 2 3
//
// Run a simulation:
//
//	runner := simulation.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, simulation.Options{Trials: 10000})
//
// [flight]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/flight
// [sample]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/sample
// [simulation]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/simulation
// [stats]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/stats
// [chart]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/chart
// [cache]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/flightsizer/pkg/io
package pkg
