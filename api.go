package metro

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdrpinto/metro/network"
)

// DefaultTransferPenalty is the time, in minutes, added for each line change.
const DefaultTransferPenalty = 3.0

// Network is the read-only transit model the engine searches.
// *network.Model implements it.
type Network interface {
	IsOnLine(station, line string) bool
	Neighbors(station string) []network.Neighbor
	RealCost(from, to string) (float64, error)
	HeuristicCost(from, to string) (float64, error)
	LinesServing(station string) []string
}

// Dedup selects how the frontier treats repeated states.
type Dedup int

const (
	// DedupByState keeps only the best known g per state and skips
	// frontier entries made stale by a cheaper path.
	DedupByState Dedup = iota

	// DedupByPath only drops nodes equal in state, g, h, path and
	// predecessor, so one state may be queued once per distinct path.
	// On cyclic networks with an unreachable goal it only stops under
	// WithMaxIterations.
	DedupByPath
)

func (d Dedup) String() string {
	switch d {
	case DedupByState:
		return "state"
	case DedupByPath:
		return "path"
	default:
		return fmt.Sprintf("dedup(%d)", int(d))
	}
}

// ParseDedup parses "state" or "path".
func ParseDedup(text string) (Dedup, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "state":
		return DedupByState, nil
	case "path":
		return DedupByPath, nil
	default:
		return 0, fmt.Errorf("unknown dedup policy %q (want state or path)", text)
	}
}

// Result contains the outcome of a search.
type Result struct {
	Path     []State `json:"path"`
	Cost     float64 `json:"cost"`
	Expanded int     `json:"expanded"`
}

// TraceFunc receives one snapshot per expansion. It must not retain or
// modify the engine.
type TraceFunc func(StepSnapshot)

// Options defines parameters for the search.
type Options struct {
	TransferPenalty float64
	Dedup           Dedup
	MaxIterations   int
	Trace           TraceFunc
	Logger          *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithTransferPenalty sets the time added for every line change.
func WithTransferPenalty(penalty float64) Option {
	return func(options *Options) { options.TransferPenalty = penalty }
}

// WithDedup selects the frontier deduplication policy.
func WithDedup(dedup Dedup) Option {
	return func(options *Options) { options.Dedup = dedup }
}

// WithMaxIterations caps the number of expansions. Zero means no cap.
func WithMaxIterations(maxIterations int) Option {
	return func(options *Options) { options.MaxIterations = maxIterations }
}

// WithTrace installs a diagnostic hook called after every expansion with the
// sorted frontier. It has no effect on the search.
func WithTrace(trace TraceFunc) Option {
	return func(options *Options) { options.Trace = trace }
}

// WithLogger sets the logger used for start and finish messages.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// Engine runs one A* search between two states. It is not safe for
// concurrent use.
type Engine struct {
	net     Network
	start   State
	goal    State
	options Options
	logger  *slog.Logger

	frontier *frontier
	bestG    map[State]float64

	status   Status
	found    *SearchNode
	err      error
	expanded int
	steps    int
}

// New validates start and goal against net and seeds the frontier with the
// start node.
func New(net Network, start, goal State, options ...Option) (*Engine, error) {
	searchOptions := Options{
		TransferPenalty: DefaultTransferPenalty,
		Dedup:           DedupByState,
	}
	for _, option := range options {
		option(&searchOptions)
	}
	logger := searchOptions.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start = NewState(start.Station, start.Line)
	goal = NewState(goal.Station, goal.Line)
	if !net.IsOnLine(start.Station, start.Line) {
		return nil, &InvalidStateError{Role: "start", State: start}
	}
	if !net.IsOnLine(goal.Station, goal.Line) {
		return nil, &InvalidStateError{Role: "goal", State: goal}
	}

	e := &Engine{
		net:      net,
		start:    start,
		goal:     goal,
		options:  searchOptions,
		logger:   logger,
		frontier: newFrontier(searchOptions.Dedup == DedupByPath),
		bestG:    map[State]float64{start: 0},
		status:   StatusRunning,
	}

	h, err := e.heuristic(start)
	if err != nil {
		return nil, fmt.Errorf("seed start node: %w", err)
	}
	e.frontier.push(newSearchNode(start, 0, h, []State{start}, nil))

	return e, nil
}

// Start returns the normalized start state.
func (e *Engine) Start() State { return e.start }

// Goal returns the normalized goal state.
func (e *Engine) Goal() State { return e.goal }

// Run drives the search to completion. It returns ErrSearchExhausted when
// no route exists. The context is checked between expansions.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	e.logger.Debug("route search started",
		"start", e.start.String(), "goal", e.goal.String(), "dedup", e.options.Dedup.String())

	for e.status == StatusRunning && e.err == nil {
		if err := ctx.Err(); err != nil {
			return Result{Expanded: e.expanded}, err
		}
		if _, err := e.step(false); err != nil {
			e.logger.Debug("route search stopped", "error", err, "expanded", e.expanded)
			return Result{Expanded: e.expanded}, err
		}
	}
	if e.err != nil {
		return Result{Expanded: e.expanded}, e.err
	}

	result := e.result()
	e.logger.Debug("route search finished",
		"cost", result.Cost, "states", len(result.Path), "expanded", result.Expanded)
	return result, nil
}

func (e *Engine) result() Result {
	return Result{
		Path:     e.found.Path(),
		Cost:     e.found.cost,
		Expanded: e.expanded,
	}
}
