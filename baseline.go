package metro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/pdrpinto/metro/internal"
)

// Baseline computes the minimum-time route with Dijkstra's algorithm over
// the same (station, line) moves the engine uses. It is the reference the
// A* result is checked against.
func Baseline(net Network, start, goal State, transferPenalty float64) (Result, error) {
	start = NewState(start.Station, start.Line)
	goal = NewState(goal.Station, goal.Line)
	if !net.IsOnLine(start.Station, start.Line) {
		return Result{}, &InvalidStateError{Role: "start", State: start}
	}
	if !net.IsOnLine(goal.Station, goal.Line) {
		return Result{}, &InvalidStateError{Role: "goal", State: goal}
	}

	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	ids := make(map[State]int64)
	var states []State
	var queue []State

	idOf := func(s State) int64 {
		if id, ok := ids[s]; ok {
			return id
		}
		id := int64(len(states))
		ids[s] = id
		states = append(states, s)
		queue = append(queue, s)
		g.AddNode(simple.Node(id))
		return id
	}

	idOf(start)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		from := ids[current]

		for _, next := range successors(net, current) {
			weight, err := stepCost(net, current, next, transferPenalty)
			if err != nil {
				return Result{}, fmt.Errorf("baseline edge %s -> %s: %w", current, next, err)
			}
			to := idOf(next)
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(from), simple.Node(to), weight))
		}
	}

	goalID, ok := ids[goal]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s is unreachable from %s", ErrSearchExhausted, goal, start)
	}
	shortest := path.DijkstraFrom(simple.Node(ids[start]), g)
	nodes, weight := shortest.To(goalID)
	if math.IsInf(weight, 1) || len(nodes) == 0 {
		return Result{}, fmt.Errorf("%w: %s is unreachable from %s", ErrSearchExhausted, goal, start)
	}

	route := make([]State, len(nodes))
	for i, node := range nodes {
		route[i] = states[node.ID()]
	}
	return Result{Path: route, Cost: internal.Round2(weight), Expanded: len(states)}, nil
}
