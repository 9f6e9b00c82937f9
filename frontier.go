package statemachine

// Frontier holds discovered states that have not been expanded yet, each
// paired with the history that led to it. Pop order is what distinguishes
// one search discipline from another.
type Frontier[S any] interface {
	Insert(state S, history History[S])
	// Pop removes the next entry. ok is false once the frontier is empty.
	Pop() (state S, history History[S], ok bool)
	Len() int
}

// Strategy builds a fresh frontier seeded with the initial state and an
// empty history. A strategy is chosen per run by passing one of
// BreadthFirst, DepthFirst, AStar or Staggered to the Machine.
type Strategy[S any] func(initial S) Frontier[S]

type entry[S any] struct {
	state   S
	history History[S]
}

// BFSFrontier pops in insertion order.
type BFSFrontier[S any] struct {
	entries []entry[S]
	head    int
}

// BreadthFirst is the first-in-first-out strategy. With unit-cost
// transitions every state is first reached along a minimum-length path.
func BreadthFirst[S any](initial S) Frontier[S] {
	f := &BFSFrontier[S]{}
	f.Insert(initial, History[S]{})
	return f
}

func (f *BFSFrontier[S]) Insert(state S, history History[S]) {
	f.entries = append(f.entries, entry[S]{state: state, history: history})
}

func (f *BFSFrontier[S]) Pop() (S, History[S], bool) {
	if f.head == len(f.entries) {
		var zero S
		return zero, History[S]{}, false
	}
	e := f.entries[f.head]
	f.entries[f.head] = entry[S]{}
	f.head++

	// reclaim the consumed prefix once it dominates the backing array
	if f.head > 64 && f.head*2 >= len(f.entries) {
		n := copy(f.entries, f.entries[f.head:])
		clear(f.entries[n:])
		f.entries = f.entries[:n]
		f.head = 0
	}
	return e.state, e.history, true
}

func (f *BFSFrontier[S]) Len() int { return len(f.entries) - f.head }

// DFSFrontier pops the most recently inserted entry first.
type DFSFrontier[S any] struct {
	entries []entry[S]
}

// DepthFirst is the last-in-first-out strategy. It gives no path length
// guarantee and mostly serves as a baseline.
func DepthFirst[S any](initial S) Frontier[S] {
	f := &DFSFrontier[S]{}
	f.Insert(initial, History[S]{})
	return f
}

func (f *DFSFrontier[S]) Insert(state S, history History[S]) {
	f.entries = append(f.entries, entry[S]{state: state, history: history})
}

func (f *DFSFrontier[S]) Pop() (S, History[S], bool) {
	n := len(f.entries)
	if n == 0 {
		var zero S
		return zero, History[S]{}, false
	}
	e := f.entries[n-1]
	f.entries[n-1] = entry[S]{}
	f.entries = f.entries[:n-1]
	return e.state, e.history, true
}

func (f *DFSFrontier[S]) Len() int { return len(f.entries) }
