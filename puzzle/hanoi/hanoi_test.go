package hanoi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchevertonwynne/statemachine"
	"github.com/jchevertonwynne/statemachine/grid"
)

func TestNew(t *testing.T) {
	tower, err := New(3)
	require.NoError(t, err)

	assert.Equal(t, 3, tower.Rings())
	assert.Equal(t, []int{3, 2, 1}, tower.Peg(Left))
	assert.Empty(t, tower.Peg(Middle))
	assert.Empty(t, tower.Peg(Right))
	assert.False(t, tower.Finished())
}

func TestNew_Invalid(t *testing.T) {
	for _, rings := range []int{0, -1, MaxRings + 1} {
		_, err := New(rings)
		assert.ErrorIs(t, err, ErrInvalidTower, "rings=%d", rings)
	}
}

func TestTower_Next(t *testing.T) {
	tower, err := New(3)
	require.NoError(t, err)

	next := tower.Next()
	require.Len(t, next, 2)
	for _, n := range next {
		assert.Equal(t, []int{3, 2}, n.Peg(Left))
		assert.Equal(t, 1, len(n.Peg(Middle))+len(n.Peg(Right)))
	}

	// the smallest ring never goes under a larger one
	for _, n := range next {
		for _, m := range n.Next() {
			for peg := range pegs {
				stack := m.Peg(peg)
				for i := 1; i < len(stack); i++ {
					assert.Greater(t, stack[i-1], stack[i])
				}
			}
		}
	}
}

func TestTower_Differences(t *testing.T) {
	solved, err := Solved(3)
	require.NoError(t, err)
	assert.True(t, solved.Finished())
	assert.Zero(t, statemachine.Estimate[grid.Coord](solved, grid.Manhattan))

	start, err := New(2)
	require.NoError(t, err)
	assert.Equal(t, []statemachine.Pair[grid.Coord]{
		{Expected: grid.At(Right, 0), Actual: grid.At(Left, 0)},
		{Expected: grid.At(Right, 1), Actual: grid.At(Left, 1)},
	}, start.Differences())
}

func TestTower_Solve(t *testing.T) {
	for rings := 1; rings <= 4; rings++ {
		start, err := New(rings)
		require.NoError(t, err)

		path, ok := statemachine.NewFinishing(start).FindOne(statemachine.BreadthFirst[Tower])
		require.True(t, ok)
		assert.Len(t, path, 1<<rings, "rings=%d", rings)
	}
}

func TestTower_String(t *testing.T) {
	tower, err := New(2)
	require.NoError(t, err)
	assert.Equal(t, "Hanoi{left: [2 1], middle: [], right: []}", tower.String())
}
