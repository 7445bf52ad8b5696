package metro

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pdrpinto/metro/internal"
)

// SearchNode is a State reached through a specific path. Nodes never change
// after construction; g, h and cost are rounded to two decimals at birth.
type SearchNode struct {
	state       State
	g           float64
	h           float64
	cost        float64
	path        []State
	predecessor *State
}

func newSearchNode(state State, g, h float64, path []State, predecessor *State) *SearchNode {
	g = internal.Round2(g)
	h = internal.Round2(h)
	return &SearchNode{
		state:       state,
		g:           g,
		h:           h,
		cost:        internal.Round2(g + h),
		path:        path,
		predecessor: predecessor,
	}
}

// State returns the (station, line) pair of the node.
func (n *SearchNode) State() State { return n.state }

// G returns the accumulated travel time from the start.
func (n *SearchNode) G() float64 { return n.g }

// H returns the estimated time remaining to the goal.
func (n *SearchNode) H() float64 { return n.h }

// Cost returns G + H.
func (n *SearchNode) Cost() float64 { return n.cost }

// Path returns a copy of the states from the start up to and including this node.
func (n *SearchNode) Path() []State { return slices.Clone(n.path) }

// Predecessor returns the state expanded to produce this node. It is false
// for the start node.
func (n *SearchNode) Predecessor() (State, bool) {
	if n.predecessor == nil {
		return State{}, false
	}
	return *n.predecessor, true
}

// Equal compares state, g, h, path and predecessor. Two nodes for the same
// state reached along different paths are not equal.
func (n *SearchNode) Equal(other *SearchNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.state != other.state || n.g != other.g || n.h != other.h {
		return false
	}
	if (n.predecessor == nil) != (other.predecessor == nil) {
		return false
	}
	if n.predecessor != nil && *n.predecessor != *other.predecessor {
		return false
	}
	return slices.Equal(n.path, other.path)
}

// key is a string form of everything Equal compares.
func (n *SearchNode) key() string {
	var b strings.Builder
	writeState := func(s State) {
		b.WriteString(s.Station)
		b.WriteByte(0)
		b.WriteString(s.Line)
		b.WriteByte(0)
	}
	writeState(n.state)
	b.WriteString(strconv.FormatFloat(n.g, 'f', 2, 64))
	b.WriteByte(0)
	b.WriteString(strconv.FormatFloat(n.h, 'f', 2, 64))
	b.WriteByte(0)
	if n.predecessor != nil {
		writeState(*n.predecessor)
	} else {
		b.WriteByte(1)
	}
	for _, s := range n.path {
		writeState(s)
	}
	return b.String()
}

func (n *SearchNode) String() string {
	return fmt.Sprintf("%s cost=%.2f g=%.2f h=%.2f", n.state, n.cost, n.g, n.h)
}
