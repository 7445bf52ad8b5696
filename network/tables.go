package network

import "strings"

// Cell is one entry of a distance table. Unset cells mean "no edge".
type Cell struct {
	Value float64
	Set   bool
}

// Distance returns a set cell holding v.
func Distance(v float64) Cell { return Cell{Value: v, Set: true} }

// DistanceRow is one row of a distance table, indexed by Station.
type DistanceRow struct {
	Station string
	Cells   []Cell
}

// DistanceTable is a square (possibly ragged) matrix of raw distances with
// station names as both column headers and row index. Only the strict upper
// triangle is read.
type DistanceTable struct {
	Columns []string
	Rows    []DistanceRow
}

// LineTable lists, per column, the stations each line serves. Empty cells are
// ignored, so lines of different lengths share one table.
type LineTable struct {
	Lines []string
	Rows  [][]string
}

// Normalize trims and lowercases a station or line identifier.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
