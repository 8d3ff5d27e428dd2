// Package io reads and writes flights, sizing results and simulation
// results.
//
// # Grid Format
//
// A flight is a JSON object with one array per element, each listing the
// heights of that element's positions from front to back:
//
//	{
//	  "elements": [
//	    [70.1, 64.3, 68.0],
//	    [62.5, 71.9, 66.6]
//	  ]
//	}
//
// Every element must have the same number of ranks and every height must be
// a finite number.
//
// # Sizing Format
//
// [WriteSizing] reports a sized flight with its move counts. With a trace it
// also includes the unsized flight and the flight after the primary phase:
//
//	{
//	  "unsized": {"elements": [[3, 1], [2, 4]]},
//	  "after_primary": {"elements": [[3, 1], [4, 2]]},
//	  "sized": {"elements": [[4, 2], [3, 1]]},
//	  "primary_moves": 1,
//	  "secondary_moves": 2,
//	  "total_moves": 3
//	}
//
// # Simulation Results
//
// Simulation results round-trip through JSON ([WriteResult], [ReadResult]).
// Per-trial move counts can also be exported as CSV with the header
// trial,primary,secondary,total for use in spreadsheets and notebooks, and
// read back with [ReadTrialsCSV].
package io
