package statemachine

import "github.com/jchevertonwynne/statemachine/internal"

// History is an immutable record of the states visited on the way to a
// frontier entry. Push returns a new History that shares every earlier entry
// with its parent, so sibling entries in a frontier cost one node each.
//
// The zero value is an empty history.
type History[S any] struct {
	node   *historyNode[S]
	length int
}

type historyNode[S any] struct {
	value    S
	previous *historyNode[S]
}

// Push returns a history one entry longer than h ending in value.
// h itself is left untouched.
func (h History[S]) Push(value S) History[S] {
	return History[S]{
		node:   &historyNode[S]{value: value, previous: h.node},
		length: h.length + 1,
	}
}

// Len is the number of Push calls since the empty history.
func (h History[S]) Len() int { return h.length }

// Empty reports whether nothing has been pushed.
func (h History[S]) Empty() bool { return h.length == 0 }

// Last returns the most recently pushed value.
func (h History[S]) Last() (S, bool) {
	if h.node == nil {
		var zero S
		return zero, false
	}
	return h.node.value, true
}

// Walk visits entries newest first until fn returns false.
func (h History[S]) Walk(fn func(S) bool) {
	for node := h.node; node != nil; node = node.previous {
		if !fn(node.value) {
			return
		}
	}
}

// Slice copies the history into a new slice, oldest entry first.
func (h History[S]) Slice() []S {
	out := make([]S, 0, h.length)
	h.Walk(func(value S) bool {
		out = append(out, value)
		return true
	})
	internal.Reverse(out)
	return out
}
