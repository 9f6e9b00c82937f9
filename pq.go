package statemachine

// PriorityQueueItem is a frontier entry with its precomputed score.
type PriorityQueueItem[S any] struct {
	State   S
	History History[S]
	Score   float64
	// Sequence orders equal scores by insertion.
	Sequence     uint64
	IndexInQueue int
}

// PriorityQueue is a min-heap on Score, driven through container/heap.
type PriorityQueue[S any] []*PriorityQueueItem[S]

func (queue PriorityQueue[S]) Len() int { return len(queue) }
func (queue PriorityQueue[S]) Less(i, j int) bool {
	if queue[i].Score != queue[j].Score {
		return queue[i].Score < queue[j].Score
	}
	return queue[i].Sequence < queue[j].Sequence
}
func (queue PriorityQueue[S]) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].IndexInQueue = i
	queue[j].IndexInQueue = j
}

func (queue *PriorityQueue[S]) Push(x any) {
	item := x.(*PriorityQueueItem[S])
	item.IndexInQueue = len(*queue)
	*queue = append(*queue, item)
}

func (queue *PriorityQueue[S]) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	item.IndexInQueue = -1
	*queue = oldQueue[:n-1]
	return item
}
