// Package hanoi models the Tower of Hanoi with three pegs.
package hanoi

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jchevertonwynne/statemachine"
	"github.com/jchevertonwynne/statemachine/grid"
)

const (
	Left = iota
	Middle
	Right

	pegs = 3
)

// MaxRings bounds the tower height so every ring fits in one byte.
const MaxRings = 255

var ErrInvalidTower = errors.New("invalid tower")

// Tower is one arrangement of rings. Ring 1 is the smallest. Each peg is
// stored bottom to top, one byte per ring, which keeps Tower comparable.
type Tower struct {
	rings int
	pegs  [pegs]string
}

var _ statemachine.Differ[grid.Coord] = Tower{}

// New returns a tower with every ring stacked on the left peg.
func New(rings int) (Tower, error) {
	return stacked(rings, Left)
}

// Solved returns a tower with every ring stacked on the right peg.
func Solved(rings int) (Tower, error) {
	return stacked(rings, Right)
}

func stacked(rings, peg int) (Tower, error) {
	if rings < 1 || rings > MaxRings {
		return Tower{}, fmt.Errorf("%w: %d rings", ErrInvalidTower, rings)
	}
	stack := make([]byte, rings)
	for i := range stack {
		stack[i] = byte(rings - i)
	}
	t := Tower{rings: rings}
	t.pegs[peg] = string(stack)
	return t, nil
}

// Rings returns the number of rings in play.
func (t Tower) Rings() int { return t.rings }

// Peg returns the rings on peg, bottom first.
func (t Tower) Peg(peg int) []int {
	out := make([]int, len(t.pegs[peg]))
	for i := range out {
		out[i] = int(t.pegs[peg][i])
	}
	return out
}

// Next returns every tower reachable by moving one top ring onto an empty
// peg or a larger ring.
func (t Tower) Next() []Tower {
	res := make([]Tower, 0, 3)
	for from := range pegs {
		if len(t.pegs[from]) == 0 {
			continue
		}
		ring := t.top(from)
		for to := range pegs {
			if to == from {
				continue
			}
			if len(t.pegs[to]) > 0 && t.top(to) < ring {
				continue
			}
			next := t
			next.pegs[from] = t.pegs[from][:len(t.pegs[from])-1]
			next.pegs[to] = t.pegs[to] + string([]byte{ring})
			res = append(res, next)
		}
	}
	return res
}

func (t Tower) top(peg int) byte {
	stack := t.pegs[peg]
	return stack[len(stack)-1]
}

// Finished reports whether every ring sits on the right peg.
func (t Tower) Finished() bool {
	return len(t.pegs[Right]) == t.rings
}

// Differences pairs each ring's place in the solved tower with where it
// sits now, largest ring first. Columns are pegs and rows are heights.
func (t Tower) Differences() []statemachine.Pair[grid.Coord] {
	placements := make([]grid.Coord, t.rings)
	for peg, stack := range t.pegs {
		for height := 0; height < len(stack); height++ {
			placements[int(stack[height])-1] = grid.At(peg, height)
		}
	}
	slices.Reverse(placements)

	res := make([]statemachine.Pair[grid.Coord], 0, t.rings)
	for height, actual := range placements {
		res = append(res, statemachine.Pair[grid.Coord]{
			Expected: grid.At(Right, height),
			Actual:   actual,
		})
	}
	return res
}

func (t Tower) String() string {
	names := [pegs]string{"left", "middle", "right"}
	parts := make([]string, 0, pegs)
	for peg := range pegs {
		parts = append(parts, fmt.Sprintf("%s: %v", names[peg], t.Peg(peg)))
	}
	return "Hanoi{" + strings.Join(parts, ", ") + "}"
}
