package metro

import "fmt"

// Status is the engine's position in its state machine.
type Status int

const (
	StatusRunning Status = iota
	StatusGoalFound
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGoalFound:
		return "goal_found"
	case StatusExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StepSnapshot exposes the per-iteration state of the search.
type StepSnapshot struct {
	Index    int
	Status   Status
	Current  *SearchNode
	Frontier []SearchNode
	Path     []State
	Cost     float64
}

// Done reports whether the search has stopped.
func (s StepSnapshot) Done() bool { return s.Status != StatusRunning }

// Step advances the search by one node and returns a snapshot. Once the goal
// is found further calls return the final snapshot again; once the frontier
// is exhausted they return ErrSearchExhausted again.
func (e *Engine) Step() (StepSnapshot, error) {
	return e.step(true)
}

func (e *Engine) step(withFrontier bool) (StepSnapshot, error) {
	if e.status != StatusRunning || e.err != nil {
		return e.snapshot(e.found, withFrontier), e.err
	}
	e.steps++

	node := e.pop()
	if node == nil {
		e.status = StatusExhausted
		e.err = fmt.Errorf("%w: %s to %s after %d expansions", ErrSearchExhausted, e.start, e.goal, e.expanded)
		return e.snapshot(nil, withFrontier), e.err
	}

	if node.state == e.goal {
		e.status = StatusGoalFound
		e.found = node
		return e.snapshot(node, withFrontier), nil
	}

	if e.options.MaxIterations > 0 && e.expanded >= e.options.MaxIterations {
		e.err = fmt.Errorf("%w: %d expansions", ErrIterationLimit, e.expanded)
		return e.snapshot(node, withFrontier), e.err
	}

	if err := e.expand(node); err != nil {
		e.err = fmt.Errorf("expand %s: %w", node.state, err)
		return e.snapshot(node, withFrontier), e.err
	}
	e.expanded++

	snapshot := e.snapshot(node, withFrontier || e.options.Trace != nil)
	if e.options.Trace != nil {
		e.options.Trace(snapshot)
	}
	return snapshot, nil
}

// pop returns the next live node. Under DedupByState, entries beaten by a
// cheaper path to the same state are discarded.
func (e *Engine) pop() *SearchNode {
	for {
		node := e.frontier.pop()
		if node == nil {
			return nil
		}
		if e.options.Dedup == DedupByState && node.g > e.bestG[node.state] {
			continue
		}
		return node
	}
}

func (e *Engine) snapshot(current *SearchNode, withFrontier bool) StepSnapshot {
	snapshot := StepSnapshot{
		Index:   e.steps,
		Status:  e.status,
		Current: current,
	}
	if withFrontier {
		snapshot.Frontier = e.frontier.snapshot()
	}
	if e.status == StatusGoalFound {
		snapshot.Path = e.found.Path()
		snapshot.Cost = e.found.cost
	}
	return snapshot
}
