package statemachine

// State is a searchable configuration. S must be comparable so the
// orchestrator can use it both for goal equality and as a map key in the
// seen registry; copying the value is its duplication.
//
// Next must be a pure function of the receiver: it returns every state
// reachable in one transition, or nothing for a dead end.
type State[S any] interface {
	comparable
	Next() []S
}

// Finishing is a State that can tell for itself whether it is solved.
type Finishing[S any] interface {
	State[S]
	Finished() bool
}

// Pair aligns where a logical element should sit with where it currently sits.
type Pair[P any] struct {
	Expected P
	Actual   P
}

// Differ exposes the per-element misplacement of a state for heuristic scoring.
type Differ[P any] interface {
	Differences() []Pair[P]
}

// Distance scores the divergence between two points. It must be pure and
// return the same value for the same inputs, since frontier ordering
// relies on scores staying stable.
type Distance[P any] func(a, b P) float64

// Estimate sums distance over every pair the state reports.
func Estimate[P any](state Differ[P], distance Distance[P]) float64 {
	var total float64
	for _, pair := range state.Differences() {
		total += distance(pair.Expected, pair.Actual)
	}
	return total
}
