package metro

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/metro/network"
)

var (
	// ErrInvalidState is matched by every *InvalidStateError.
	ErrInvalidState = errors.New("invalid state")

	// ErrSearchExhausted means the frontier emptied before the goal was
	// reached: there is no route between the two states.
	ErrSearchExhausted = errors.New("no route found")

	// ErrIterationLimit is returned when WithMaxIterations stops a search.
	ErrIterationLimit = errors.New("iteration limit reached")

	// ErrLookup is returned when a cost table has no entry for a station pair.
	ErrLookup = network.ErrLookup
)

// InvalidStateError reports a start or goal state whose station is not
// served by its line.
type InvalidStateError struct {
	Role  string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid %s state %s: station %q is not served by line %q",
		e.Role, e.State, e.State.Station, e.State.Line)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
