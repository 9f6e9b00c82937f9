package statemachine

import (
	"github.com/rs/zerolog"
)

// StepSnapshot exposes the state of a run after one iteration.
type StepSnapshot[S any] struct {
	// Current is the state expanded by this step.
	Current S
	// Depth is the history length of Current.
	Depth      int
	Successors int
	Frontier   int
	Seen       int
	Done       bool
	Found      bool
	// Path is set on the step that finds a goal in single-solution mode.
	Path      []S
	Solutions int
	StepIndex int
}

// Stepper drives one run a single expansion at a time. It owns the run's
// frontier and seen registry and is not safe for concurrent use; once Done
// it keeps returning the final snapshot.
type Stepper[S State[S]] struct {
	goal     func(S) bool
	frontier Frontier[S]
	seen     map[S]struct{}
	findAll  bool

	logger   zerolog.Logger
	observer observers
	runID    string
	label    string

	solutions [][]S
	final     StepSnapshot[S]
	stepCount int
	done      bool
}

// NewStepper starts a single-solution run of m using strategy.
func (m *Machine[S]) NewStepper(strategy Strategy[S]) *Stepper[S] {
	return m.newStepper(strategy, false)
}

func (m *Machine[S]) newStepper(strategy Strategy[S], findAll bool) *Stepper[S] {
	runID := m.options.NewRunID()
	s := &Stepper[S]{
		goal:     m.goal,
		findAll:  findAll,
		observer: observers(m.options.Observers),
		runID:    runID,
		label:    m.options.Label,
		logger: m.options.Logger.With().
			Str("run_id", runID).
			Str("label", m.options.Label).
			Logger(),
	}
	s.emit(Event{Type: EventRunStart})
	s.logger.Debug().Bool("find_all", findAll).Msg("search run started")

	if m.goal(m.initial) {
		path := []S{m.initial}
		s.solutions = append(s.solutions, path)
		s.emit(Event{Type: EventSolution, PathLength: 1})
		s.finish(StepSnapshot[S]{Current: m.initial, Found: true, Path: path})
		return s
	}

	s.frontier = strategy(m.initial)
	s.seen = map[S]struct{}{m.initial: {}}
	return s
}

// Step pops and expands one entry.
func (s *Stepper[S]) Step() StepSnapshot[S] {
	if s.done {
		return s.final
	}

	state, history, ok := s.frontier.Pop()
	if !ok {
		s.finish(StepSnapshot[S]{Found: len(s.solutions) > 0})
		return s.final
	}
	s.stepCount++

	successors := state.Next()
	s.emit(Event{
		Type:       EventExpand,
		Depth:      history.Len(),
		Successors: len(successors),
	})
	s.logger.Trace().
		Int("step", s.stepCount).
		Int("depth", history.Len()).
		Int("successors", len(successors)).
		Int("frontier", s.frontier.Len()).
		Msg("expanding state")

	extended := history.Push(state)
	for _, next := range successors {
		if s.goal(next) {
			path := extended.Push(next).Slice()
			s.solutions = append(s.solutions, path)
			s.emit(Event{Type: EventSolution, Depth: extended.Len(), PathLength: len(path)})
			if !s.findAll {
				s.finish(StepSnapshot[S]{Current: state, Depth: history.Len(), Successors: len(successors), Found: true, Path: path})
				return s.final
			}
			continue
		}
		if _, seen := s.seen[next]; seen {
			continue
		}
		s.seen[next] = struct{}{}
		s.frontier.Insert(next, extended)
	}

	return StepSnapshot[S]{
		Current:    state,
		Depth:      history.Len(),
		Successors: len(successors),
		Frontier:   s.frontier.Len(),
		Seen:       len(s.seen),
		Solutions:  len(s.solutions),
		StepIndex:  s.stepCount,
	}
}

// Solutions returns every path recorded so far.
func (s *Stepper[S]) Solutions() [][]S { return s.solutions }

// RunID identifies this run in logs and events.
func (s *Stepper[S]) RunID() string { return s.runID }

// Done reports whether the run has terminated.
func (s *Stepper[S]) Done() bool { return s.done }

func (s *Stepper[S]) finish(snapshot StepSnapshot[S]) {
	s.done = true
	snapshot.Done = true
	snapshot.StepIndex = s.stepCount
	snapshot.Seen = len(s.seen)
	snapshot.Solutions = len(s.solutions)
	if s.frontier != nil {
		snapshot.Frontier = s.frontier.Len()
	}
	s.final = snapshot

	s.emit(Event{Type: EventRunFinish, Depth: snapshot.Depth, Found: snapshot.Found})
	s.logger.Debug().
		Bool("found", snapshot.Found).
		Int("checks", s.stepCount).
		Int("seen", len(s.seen)).
		Int("solutions", len(s.solutions)).
		Msg("search run finished")
}

func (s *Stepper[S]) emit(event Event) {
	if len(s.observer) == 0 {
		return
	}
	event.RunID = s.runID
	event.Label = s.label
	event.Checks = s.stepCount
	if s.frontier != nil {
		event.Frontier = s.frontier.Len()
	}
	event.Seen = len(s.seen)
	s.observer.OnEvent(event)
}
