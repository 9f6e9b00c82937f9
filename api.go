package statemachine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result contains the outcome of a single-solution search.
type Result[S any] struct {
	// Path runs from the initial state to the goal, both included.
	Path []S
	// Checks is the number of pop-and-expand iterations performed.
	Checks int
	Found  bool
}

// Options defines parameters shared by every run of a Machine.
type Options struct {
	Logger    zerolog.Logger
	Observers []Observer
	// Label names the run in logs and events, typically the strategy name.
	Label string
	// NewRunID generates the identifier attached to each run.
	NewRunID func() string
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger used for run lifecycle (debug) and expansion
// (trace) messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithObserver registers observers that receive every run event.
func WithObserver(observers ...Observer) Option {
	return func(options *Options) {
		for _, observer := range observers {
			if observer != nil {
				options.Observers = append(options.Observers, observer)
			}
		}
	}
}

// WithLabel names runs in logs and events.
func WithLabel(label string) Option {
	return func(options *Options) { options.Label = label }
}

// WithRunID overrides run identifier generation.
func WithRunID(newRunID func() string) Option {
	return func(options *Options) { options.NewRunID = newRunID }
}

// Machine pairs an initial state with a goal test. Every search call
// starts a fresh run with its own frontier and seen registry, so a Machine
// can be searched repeatedly, with the same or different strategies.
type Machine[S State[S]] struct {
	initial S
	goal    func(S) bool
	options Options
}

// New creates a Machine that searches for an explicit goal state.
func New[S State[S]](initial, goal S, options ...Option) *Machine[S] {
	return newMachine(initial, func(state S) bool { return state == goal }, options)
}

// NewWithPredicate creates a Machine whose goal is any state for which
// finished returns true.
func NewWithPredicate[S State[S]](initial S, finished func(S) bool, options ...Option) *Machine[S] {
	return newMachine(initial, finished, options)
}

// NewFinishing creates a Machine that asks each state whether it is finished.
func NewFinishing[S Finishing[S]](initial S, options ...Option) *Machine[S] {
	return newMachine(initial, func(state S) bool { return state.Finished() }, options)
}

func newMachine[S State[S]](initial S, goal func(S) bool, options []Option) *Machine[S] {
	searchOptions := Options{
		Logger:   zerolog.Nop(),
		NewRunID: uuid.NewString,
	}
	for _, option := range options {
		option(&searchOptions)
	}
	return &Machine[S]{
		initial: initial,
		goal:    goal,
		options: searchOptions,
	}
}

// Initial returns the state every run starts from.
func (m *Machine[S]) Initial() S { return m.initial }

// IsGoal applies the machine's goal test to state.
func (m *Machine[S]) IsGoal(state S) bool { return m.goal(state) }

// FindOne returns the first path to a goal found by strategy.
// ok is false when the reachable space holds no goal.
func (m *Machine[S]) FindOne(strategy Strategy[S]) (path []S, ok bool) {
	result := m.FindOneWithChecks(strategy)
	return result.Path, result.Found
}

// FindOneWithChecks is FindOne that also reports how many iterations ran.
func (m *Machine[S]) FindOneWithChecks(strategy Strategy[S]) Result[S] {
	stepper := m.NewStepper(strategy)
	for {
		snapshot := stepper.Step()
		if snapshot.Done {
			return Result[S]{
				Path:   snapshot.Path,
				Checks: snapshot.StepIndex,
				Found:  snapshot.Found,
			}
		}
	}
}

// FindAll drains the frontier and returns every path to a goal it
// generated, in discovery order. Goal states are reported each time they
// are generated and are never expanded; non-goal states are expanded at
// most once, so paths that merge before reaching the goal are reported
// only through the branch that reached the merge point first.
func (m *Machine[S]) FindAll(strategy Strategy[S]) [][]S {
	stepper := m.newStepper(strategy, true)
	for {
		if snapshot := stepper.Step(); snapshot.Done {
			return stepper.Solutions()
		}
	}
}
