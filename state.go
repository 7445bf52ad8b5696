package metro

import (
	"fmt"
	"strings"

	"github.com/pdrpinto/metro/network"
)

// State is a station reached on a given line. It is the unit the search
// reasons over.
type State struct {
	Station string `json:"station"`
	Line    string `json:"line"`
}

// NewState returns a State with both identifiers normalized.
func NewState(station, line string) State {
	return State{Station: network.Normalize(station), Line: network.Normalize(line)}
}

// ParseState reads a state written as "station,line".
func ParseState(text string) (State, error) {
	station, line, ok := strings.Cut(text, ",")
	state := NewState(station, line)
	if !ok || state.Station == "" || state.Line == "" {
		return State{}, fmt.Errorf("%w: %q is not in the form \"station,line\"", ErrInvalidState, text)
	}
	return state, nil
}

func (s State) String() string {
	return "(" + s.Station + ", " + s.Line + ")"
}
