package network

import (
	"fmt"

	"github.com/pdrpinto/metro/internal"
)

// DefaultVelocity is the average train speed used to turn distances into
// minutes of travel.
const DefaultVelocity = 40.0

// Neighbor is a station directly reachable from another one.
type Neighbor struct {
	Station string
	Cost    float64
}

// Options configures Build.
type Options struct {
	Velocity float64
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithVelocity sets the speed used for the distance to time conversion.
func WithVelocity(velocity float64) Option {
	return func(options *Options) { options.Velocity = velocity }
}

// Model is the immutable transit network the search runs over.
// It is safe for concurrent reads.
type Model struct {
	velocity  float64
	stations  []string
	lines     []string
	members   map[string]map[string]struct{}
	servedBy  map[string][]string
	real      *costTable
	heuristic *costTable
}

// Build normalizes the three input tables into a Model. Distances are
// converted to minutes with time = distance * 60 / velocity, rounded to two
// decimals, and mirrored so that cost(a, b) == cost(b, a).
func Build(lines LineTable, realDistances, directDistances DistanceTable, options ...Option) (*Model, error) {
	buildOptions := Options{Velocity: DefaultVelocity}
	for _, option := range options {
		option(&buildOptions)
	}
	if buildOptions.Velocity <= 0 {
		return nil, fmt.Errorf("%w: velocity must be positive, got %v", ErrMalformedTable, buildOptions.Velocity)
	}

	realTable, err := newCostTable("real", realDistances, buildOptions.Velocity)
	if err != nil {
		return nil, err
	}
	heuristicTable, err := newCostTable("heuristic", directDistances, buildOptions.Velocity)
	if err != nil {
		return nil, err
	}

	model := &Model{
		velocity:  buildOptions.Velocity,
		stations:  realTable.names,
		members:   make(map[string]map[string]struct{}, len(lines.Lines)),
		servedBy:  make(map[string][]string),
		real:      realTable,
		heuristic: heuristicTable,
	}

	for column, raw := range lines.Lines {
		line := Normalize(raw)
		if line == "" {
			return nil, fmt.Errorf("%w: line column %d has no name", ErrMalformedTable, column)
		}
		if _, dup := model.members[line]; dup {
			return nil, fmt.Errorf("%w: duplicate line %q", ErrMalformedTable, line)
		}
		model.lines = append(model.lines, line)
		model.members[line] = make(map[string]struct{})
	}

	for _, row := range lines.Rows {
		for column, raw := range row {
			if column >= len(model.lines) {
				break
			}
			station := Normalize(raw)
			if station == "" {
				continue
			}
			line := model.lines[column]
			if _, seen := model.members[line][station]; seen {
				continue
			}
			model.members[line][station] = struct{}{}
		}
	}

	// servedBy keeps line table order so expansion is deterministic.
	for _, line := range model.lines {
		for station := range model.members[line] {
			model.servedBy[station] = append(model.servedBy[station], line)
		}
	}

	return model, nil
}

// Velocity returns the speed used for unit conversion.
func (m *Model) Velocity() float64 { return m.velocity }

// Stations returns station names in real-distance table order.
func (m *Model) Stations() []string {
	return append([]string(nil), m.stations...)
}

// Lines returns line names in line table order.
func (m *Model) Lines() []string {
	return append([]string(nil), m.lines...)
}

// StationsOn returns the stations served by line, in real-distance table order.
func (m *Model) StationsOn(line string) []string {
	served, ok := m.members[Normalize(line)]
	if !ok {
		return nil
	}
	var out []string
	for _, station := range m.stations {
		if _, ok := served[station]; ok {
			out = append(out, station)
		}
	}
	return out
}

// IsOnLine reports whether line serves station.
func (m *Model) IsOnLine(station, line string) bool {
	served, ok := m.members[line]
	if !ok {
		return false
	}
	_, ok = served[station]
	return ok
}

// LinesServing returns every line that stops at station. The returned slice
// must not be modified.
func (m *Model) LinesServing(station string) []string {
	return m.servedBy[station]
}

// Neighbors returns the stations with a defined, nonzero real cost from
// station. The station itself is never included. The returned slice must not
// be modified.
func (m *Model) Neighbors(station string) []Neighbor {
	return m.real.adjacent(station)
}

// RealCost returns the travel time between two stations.
func (m *Model) RealCost(from, to string) (float64, error) {
	return m.real.cost(from, to)
}

// HeuristicCost returns the straight-line time estimate between two stations.
func (m *Model) HeuristicCost(from, to string) (float64, error) {
	return m.heuristic.cost(from, to)
}

// costTable is a symmetric station x station matrix keyed by name.
type costTable struct {
	kind      string
	names     []string
	index     map[string]int
	cells     [][]Cell
	neighbors map[string][]Neighbor
}

func newCostTable(kind string, table DistanceTable, velocity float64) (*costTable, error) {
	ct := &costTable{
		kind:      kind,
		index:     make(map[string]int, len(table.Rows)),
		neighbors: make(map[string][]Neighbor, len(table.Rows)),
	}

	register := func(raw string) (int, error) {
		name := Normalize(raw)
		if name == "" {
			return 0, fmt.Errorf("%w: %s table has an unnamed station", ErrMalformedTable, kind)
		}
		if i, ok := ct.index[name]; ok {
			return i, nil
		}
		ct.index[name] = len(ct.names)
		ct.names = append(ct.names, name)
		return ct.index[name], nil
	}

	rowIDs := make([]int, len(table.Rows))
	seenRows := make(map[string]struct{}, len(table.Rows))
	for i, row := range table.Rows {
		name := Normalize(row.Station)
		if _, dup := seenRows[name]; dup {
			return nil, fmt.Errorf("%w: duplicate station %q in %s table", ErrMalformedTable, name, kind)
		}
		seenRows[name] = struct{}{}
		id, err := register(row.Station)
		if err != nil {
			return nil, err
		}
		rowIDs[i] = id
	}
	columnIDs := make([]int, len(table.Columns))
	for j, column := range table.Columns {
		id, err := register(column)
		if err != nil {
			return nil, err
		}
		columnIDs[j] = id
	}

	ct.cells = make([][]Cell, len(ct.names))
	for i := range ct.cells {
		ct.cells[i] = make([]Cell, len(ct.names))
		ct.cells[i][i] = Distance(0)
	}

	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			// Strict upper triangle only, by position.
			if j <= i || j >= len(columnIDs) || !cell.Set {
				continue
			}
			a, b := rowIDs[i], columnIDs[j]
			if a == b {
				continue
			}
			minutes := internal.Round2(cell.Value * 60 / velocity)
			ct.cells[a][b] = Distance(minutes)
			ct.cells[b][a] = Distance(minutes)
		}
	}

	for a, name := range ct.names {
		for b, cell := range ct.cells[a] {
			if a == b || !cell.Set || cell.Value == 0 {
				continue
			}
			ct.neighbors[name] = append(ct.neighbors[name], Neighbor{Station: ct.names[b], Cost: cell.Value})
		}
	}

	return ct, nil
}

func (ct *costTable) cost(from, to string) (float64, error) {
	a, okA := ct.index[from]
	b, okB := ct.index[to]
	if !okA || !okB || !ct.cells[a][b].Set {
		return 0, fmt.Errorf("%w: %s cost %s-%s", ErrLookup, ct.kind, from, to)
	}
	return ct.cells[a][b].Value, nil
}

func (ct *costTable) adjacent(station string) []Neighbor {
	return ct.neighbors[station]
}
