package metro

import "github.com/pdrpinto/metro/internal"

// successors lists the states reachable in one move from state.
//
// A neighbor on the current line yields a move to that neighbor. A neighbor
// off the current line yields a transfer to every other line serving the
// current station; the edge itself is travelled on a later expansion. The
// result may hold duplicates when several neighbors need the same transfer.
func successors(net Network, from State) []State {
	var out []State
	for _, neighbor := range net.Neighbors(from.Station) {
		if neighbor.Station == from.Station {
			continue
		}
		if net.IsOnLine(neighbor.Station, from.Line) {
			out = append(out, State{Station: neighbor.Station, Line: from.Line})
			continue
		}
		for _, line := range net.LinesServing(from.Station) {
			if line != from.Line {
				out = append(out, State{Station: from.Station, Line: line})
			}
		}
	}
	return out
}

// stepCost is the time to go from one state to an adjacent one.
func stepCost(net Network, from, to State, transferPenalty float64) (float64, error) {
	cost, err := net.RealCost(to.Station, from.Station)
	if err != nil {
		return 0, err
	}
	if to.Line != from.Line {
		cost += transferPenalty
	}
	return cost, nil
}

// expand pushes every child of node into the frontier. A child that would
// step straight back to the node's predecessor is skipped.
func (e *Engine) expand(node *SearchNode) error {
	for _, candidate := range successors(e.net, node.state) {
		if node.predecessor != nil && *node.predecessor == candidate {
			continue
		}

		edge, err := stepCost(e.net, node.state, candidate, e.options.TransferPenalty)
		if err != nil {
			return err
		}
		h, err := e.heuristic(candidate)
		if err != nil {
			return err
		}
		child := newSearchNode(candidate, edge+node.g, h, internal.ExtendPath(node.path, candidate), &node.state)

		if e.options.Dedup == DedupByState {
			if best, seen := e.bestG[candidate]; seen && child.g >= best {
				continue
			}
			e.bestG[candidate] = child.g
		}
		e.frontier.push(child)
	}
	return nil
}

func (e *Engine) heuristic(state State) (float64, error) {
	h, err := e.net.HeuristicCost(state.Station, e.goal.Station)
	if err != nil {
		return 0, err
	}
	if state.Line != e.goal.Line {
		h += e.options.TransferPenalty
	}
	return h, nil
}
