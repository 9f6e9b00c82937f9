package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/jchevertonwynne/statemachine"
	"github.com/jchevertonwynne/statemachine/grid"
	"github.com/jchevertonwynne/statemachine/internal/config"
	"github.com/jchevertonwynne/statemachine/puzzle/hanoi"
	"github.com/jchevertonwynne/statemachine/puzzle/tileboard"
)

// ErrNoSolution is returned when a strategy exhausts the puzzle without
// reaching the goal.
var ErrNoSolution = errors.New("no solution found")

type searchable[S any] interface {
	statemachine.State[S]
	statemachine.Differ[grid.Coord]
	fmt.Stringer
}

type outcome struct {
	Strategy  config.StrategyKind `json:"strategy"`
	RunID     string              `json:"run_id"`
	Found     bool                `json:"found"`
	Moves     int                 `json:"moves"`
	Checks    int                 `json:"checks"`
	Solutions int                 `json:"solutions,omitempty"`
	Elapsed   time.Duration       `json:"elapsed_ns"`
	Path      []string            `json:"path,omitempty"`
}

// runner searches the prepared puzzle with one strategy.
type runner func(ctx context.Context, kind config.StrategyKind) outcome

func strategyFor[S searchable[S]](kind config.StrategyKind, distance statemachine.Distance[grid.Coord]) statemachine.Strategy[S] {
	switch kind {
	case config.StrategyDFS:
		return statemachine.DepthFirst[S]
	case config.StrategyAStar:
		return statemachine.AStar[S, grid.Coord](distance)
	case config.StrategyStaggered:
		return statemachine.Staggered[S, grid.Coord](distance)
	default:
		return statemachine.BreadthFirst[S]
	}
}

// prepare builds the configured puzzle and returns its rendering with a
// runner bound to it.
func (s *session) prepare() (string, runner, error) {
	distance, ok := grid.ByName(s.cfg.Search.Heuristic)
	if !ok {
		return "", nil, fmt.Errorf("unknown heuristic %q", s.cfg.Search.Heuristic)
	}
	puzzle := s.cfg.Puzzle
	findAll := s.cfg.Search.FindAll

	switch puzzle.Kind {
	case "tileboard":
		seed := puzzle.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		board, err := tileboard.Shuffled(puzzle.Columns, puzzle.Rows, puzzle.Shuffles, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return "", nil, err
		}
		s.logger.Info().
			Int("columns", puzzle.Columns).
			Int("rows", puzzle.Rows).
			Int("shuffles", puzzle.Shuffles).
			Uint64("seed", seed).
			Msg("shuffled tile board")
		return board.String(), func(ctx context.Context, kind config.StrategyKind) outcome {
			return search(ctx, s, board, tileboard.Board.Finished, kind, distance, findAll)
		}, nil
	case "hanoi":
		tower, err := hanoi.New(puzzle.Rings)
		if err != nil {
			return "", nil, err
		}
		return tower.String(), func(ctx context.Context, kind config.StrategyKind) outcome {
			return search(ctx, s, tower, hanoi.Tower.Finished, kind, distance, findAll)
		}, nil
	default:
		return "", nil, fmt.Errorf("unknown puzzle %q", puzzle.Kind)
	}
}

func search[S searchable[S]](
	ctx context.Context,
	s *session,
	initial S,
	finished func(S) bool,
	kind config.StrategyKind,
	distance statemachine.Distance[grid.Coord],
	findAll bool,
) outcome {
	runID := uuid.NewString()
	_, span := s.tracer.StartRun(ctx, string(kind))

	var checks int
	machine := statemachine.NewWithPredicate(initial, finished,
		statemachine.WithLabel(string(kind)),
		statemachine.WithLogger(s.logger),
		statemachine.WithRunID(func() string { return runID }),
		statemachine.WithObserver(
			s.metrics,
			span,
			statemachine.ObserverFunc(func(event statemachine.Event) {
				if event.Type == statemachine.EventRunFinish {
					checks = event.Checks
				}
			}),
		),
	)

	strategy := strategyFor[S](kind, distance)
	start := time.Now()
	result := outcome{Strategy: kind, RunID: runID}

	var best []S
	if findAll {
		solutions := machine.FindAll(strategy)
		result.Solutions = len(solutions)
		for _, path := range solutions {
			if best == nil || len(path) < len(best) {
				best = path
			}
		}
	} else {
		best, _ = machine.FindOne(strategy)
	}
	result.Elapsed = time.Since(start)
	result.Checks = checks
	result.Found = best != nil
	if result.Found {
		result.Moves = len(best) - 1
		result.Path = make([]string, 0, len(best))
		for _, state := range best {
			result.Path = append(result.Path, state.String())
		}
	}

	s.logger.Info().
		Str("run_id", runID).
		Str("strategy", string(kind)).
		Bool("found", result.Found).
		Int("moves", result.Moves).
		Int("checks", result.Checks).
		Dur("elapsed", result.Elapsed).
		Msg("search finished")
	return result
}

func report(w io.Writer, initial string, outcomes []outcome, showPath bool) error {
	if !showPath {
		for i := range outcomes {
			outcomes[i].Path = nil
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Initial string    `json:"initial"`
			Runs    []outcome `json:"runs"`
		}{initial, outcomes})
	}

	if _, err := fmt.Fprintf(w, "%s\n\n", initial); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tFOUND\tMOVES\tCHECKS\tSOLUTIONS\tELAPSED")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%d\t%d\t%s\n", o.Strategy, o.Found, o.Moves, o.Checks, o.Solutions, o.Elapsed.Round(time.Microsecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, o := range outcomes {
		if len(o.Path) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s path:\n", o.Strategy)
		for i, state := range o.Path {
			fmt.Fprintf(w, "-- %d --\n%s\n", i, state)
		}
	}
	return nil
}

func missing(outcomes []outcome) error {
	var errs []error
	for _, o := range outcomes {
		if !o.Found {
			errs = append(errs, fmt.Errorf("%s: %w", o.Strategy, ErrNoSolution))
		}
	}
	return errors.Join(errs...)
}
