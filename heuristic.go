package statemachine

import "container/heap"

// AStarFrontier orders entries by estimated remaining cost plus the number
// of transitions already taken.
type AStarFrontier[S Differ[P], P any] struct {
	queue    PriorityQueue[S]
	distance Distance[P]
	sequence uint64
}

// AStar returns the heuristic-guided strategy scoring each entry as
// Estimate(state, distance) + history length. With an admissible distance
// the first goal reached is optimal; otherwise only completeness holds.
// Entries with equal scores may pop in either order.
func AStar[S Differ[P], P any](distance Distance[P]) Strategy[S] {
	return func(initial S) Frontier[S] {
		f := &AStarFrontier[S, P]{
			queue:    make(PriorityQueue[S], 0),
			distance: distance,
		}
		heap.Init(&f.queue)
		f.Insert(initial, History[S]{})
		return f
	}
}

func (f *AStarFrontier[S, P]) Insert(state S, history History[S]) {
	f.sequence++
	heap.Push(&f.queue, &PriorityQueueItem[S]{
		State:    state,
		History:  history,
		Score:    Estimate[P](state, f.distance) + float64(history.Len()),
		Sequence: f.sequence,
	})
}

func (f *AStarFrontier[S, P]) Pop() (S, History[S], bool) {
	if f.queue.Len() == 0 {
		var zero S
		return zero, History[S]{}, false
	}
	item := heap.Pop(&f.queue).(*PriorityQueueItem[S])
	return item.State, item.History, true
}

func (f *AStarFrontier[S, P]) Len() int { return f.queue.Len() }

// StaggeredFrontier keeps one heap per history length. Within a bucket
// entries are ordered by heuristic estimate alone; across buckets the
// shallowest non-empty one always wins.
type StaggeredFrontier[S Differ[P], P any] struct {
	buckets  []PriorityQueue[S]
	distance Distance[P]
	sequence uint64
	size     int
	// lowest is a lower bound on the index of the first non-empty bucket.
	lowest int
}

// Staggered returns the depth-bucketed strategy. It behaves like iterative
// deepening refined by the heuristic at each depth: a shallow entry with a
// poor estimate is still expanded before any deeper entry.
func Staggered[S Differ[P], P any](distance Distance[P]) Strategy[S] {
	return func(initial S) Frontier[S] {
		f := &StaggeredFrontier[S, P]{distance: distance}
		f.Insert(initial, History[S]{})
		return f
	}
}

func (f *StaggeredFrontier[S, P]) Insert(state S, history History[S]) {
	depth := history.Len()
	for len(f.buckets) <= depth {
		f.buckets = append(f.buckets, make(PriorityQueue[S], 0))
	}
	f.sequence++
	heap.Push(&f.buckets[depth], &PriorityQueueItem[S]{
		State:    state,
		History:  history,
		Score:    Estimate[P](state, f.distance),
		Sequence: f.sequence,
	})
	f.size++
	if depth < f.lowest {
		f.lowest = depth
	}
}

func (f *StaggeredFrontier[S, P]) Pop() (S, History[S], bool) {
	for ; f.lowest < len(f.buckets); f.lowest++ {
		bucket := &f.buckets[f.lowest]
		if bucket.Len() == 0 {
			continue
		}
		item := heap.Pop(bucket).(*PriorityQueueItem[S])
		f.size--
		return item.State, item.History, true
	}
	var zero S
	return zero, History[S]{}, false
}

func (f *StaggeredFrontier[S, P]) Len() int { return f.size }

// Depths reports how many depth buckets have been allocated.
func (f *StaggeredFrontier[S, P]) Depths() int { return len(f.buckets) }
