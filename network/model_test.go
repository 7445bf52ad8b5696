package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unset = Cell{}

func triangleTables() (LineTable, DistanceTable, DistanceTable) {
	lines := LineTable{
		Lines: []string{"Azul", "Verde"},
		Rows: [][]string{
			{"A", "C"},
			{"B", "D"},
			{"", "A"},
		},
	}
	real := DistanceTable{
		Columns: []string{"A", "B", "C", "D"},
		Rows: []DistanceRow{
			{Station: "A", Cells: []Cell{Distance(0), Distance(10), unset, Distance(4)}},
			// Lower triangle values are ignored, even when they disagree.
			{Station: "B", Cells: []Cell{Distance(99), Distance(0), Distance(8.5), unset}},
			{Station: "C", Cells: []Cell{unset, unset, Distance(0), Distance(2)}},
			{Station: "D", Cells: []Cell{Distance(0)}},
		},
	}
	direct := DistanceTable{
		Columns: []string{"A", "B", "C", "D"},
		Rows: []DistanceRow{
			{Station: "A", Cells: []Cell{Distance(0), Distance(9), Distance(12), Distance(4)}},
			{Station: "B", Cells: []Cell{unset, Distance(0), Distance(8), Distance(6)}},
			{Station: "C", Cells: []Cell{unset, unset, Distance(0), Distance(2)}},
			{Station: "D"},
		},
	}
	return lines, real, direct
}

func buildTriangle(t *testing.T, options ...Option) *Model {
	t.Helper()
	lines, real, direct := triangleTables()
	model, err := Build(lines, real, direct, options...)
	require.NoError(t, err)
	return model
}

func TestBuildConvertsDistanceToMinutes(t *testing.T) {
	model := buildTriangle(t)

	cost, err := model.RealCost("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, cost, 1e-9)

	cost, err = model.RealCost("b", "c")
	require.NoError(t, err)
	assert.InDelta(t, 12.75, cost, 1e-9)

	fast := buildTriangle(t, WithVelocity(60))
	cost, err = fast.RealCost("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, cost, 1e-9)
	assert.Equal(t, 60.0, fast.Velocity())
}

func TestBuildIsSymmetric(t *testing.T) {
	model := buildTriangle(t)

	for _, a := range model.Stations() {
		for _, b := range model.Stations() {
			ab, errAB := model.RealCost(a, b)
			ba, errBA := model.RealCost(b, a)
			assert.Equal(t, errAB == nil, errBA == nil, "%s-%s presence", a, b)
			assert.Equal(t, ab, ba, "real %s-%s", a, b)

			hab, _ := model.HeuristicCost(a, b)
			hba, _ := model.HeuristicCost(b, a)
			assert.Equal(t, hab, hba, "heuristic %s-%s", a, b)
		}
	}
}

func TestBuildIgnoresLowerTriangle(t *testing.T) {
	model := buildTriangle(t)

	cost, err := model.RealCost("b", "a")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, cost, 1e-9)
}

func TestRealCostMissingPair(t *testing.T) {
	model := buildTriangle(t)

	_, err := model.RealCost("a", "c")
	assert.ErrorIs(t, err, ErrLookup)

	_, err = model.HeuristicCost("a", "nowhere")
	assert.ErrorIs(t, err, ErrLookup)
}

func TestDiagonalIsZero(t *testing.T) {
	model := buildTriangle(t)

	for _, station := range model.Stations() {
		cost, err := model.RealCost(station, station)
		require.NoError(t, err)
		assert.Zero(t, cost)
	}
}

func TestNeighborsExcludeSelfAndMissing(t *testing.T) {
	model := buildTriangle(t)

	assert.Equal(t, []Neighbor{{Station: "b", Cost: 15}, {Station: "d", Cost: 6}}, model.Neighbors("a"))
	for _, station := range model.Stations() {
		for _, neighbor := range model.Neighbors(station) {
			assert.NotEqual(t, station, neighbor.Station)
			assert.NotZero(t, neighbor.Cost)
		}
	}
	assert.Empty(t, model.Neighbors("unknown"))
}

func TestLineMembership(t *testing.T) {
	model := buildTriangle(t)

	assert.Equal(t, []string{"azul", "verde"}, model.Lines())
	assert.True(t, model.IsOnLine("a", "azul"))
	assert.True(t, model.IsOnLine("a", "verde"))
	assert.False(t, model.IsOnLine("c", "azul"))
	assert.False(t, model.IsOnLine("a", "roxo"))

	assert.Equal(t, []string{"azul", "verde"}, model.LinesServing("a"))
	assert.Equal(t, []string{"verde"}, model.LinesServing("d"))
	assert.Equal(t, []string{"a", "c", "d"}, model.StationsOn("Verde"))
	assert.Nil(t, model.StationsOn("roxo"))
}

func TestBuildRejectsMalformedInput(t *testing.T) {
	lines, real, direct := triangleTables()

	_, err := Build(lines, real, direct, WithVelocity(0))
	assert.ErrorIs(t, err, ErrMalformedTable)

	dupLines := LineTable{Lines: []string{"azul", "AZUL"}}
	_, err = Build(dupLines, real, direct)
	assert.ErrorIs(t, err, ErrMalformedTable)

	dupRows := real
	dupRows.Rows = append([]DistanceRow{{Station: "a"}}, real.Rows...)
	_, err = Build(lines, dupRows, direct)
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "e14", Normalize("  E14 "))
	assert.Equal(t, "vermelho", Normalize("Vermelho"))
}
