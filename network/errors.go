package network

import "errors"

var (
	// ErrLookup is returned when a cost is requested for a station pair
	// that the table does not define.
	ErrLookup = errors.New("station pair not found")

	// ErrMalformedTable is returned by Build for structurally invalid input.
	ErrMalformedTable = errors.New("malformed network table")
)
