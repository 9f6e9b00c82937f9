package statemachine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchevertonwynne/statemachine"
	"github.com/jchevertonwynne/statemachine/grid"
	"github.com/jchevertonwynne/statemachine/puzzle/tileboard"
)

// graph is a fixed directed graph with a heuristic value per vertex.
type graph struct {
	edges    map[string][]string
	estimate map[string]float64
}

type vertex struct {
	g    *graph
	name string
}

func (g *graph) at(name string) vertex { return vertex{g: g, name: name} }

func (v vertex) Next() []vertex {
	out := make([]vertex, 0, len(v.g.edges[v.name]))
	for _, name := range v.g.edges[v.name] {
		out = append(out, v.g.at(name))
	}
	return out
}

func (v vertex) Differences() []statemachine.Pair[float64] {
	return []statemachine.Pair[float64]{{Expected: 0, Actual: v.g.estimate[v.name]}}
}

func names(path []vertex) []string {
	out := make([]string, 0, len(path))
	for _, v := range path {
		out = append(out, v.name)
	}
	return out
}

func absDistance(a, b float64) float64 { return math.Abs(a - b) }

// number walks the integers in [0, limit] by +1, -1 and *2.
type number struct {
	value int
	limit int
}

func (n number) Next() []number {
	out := make([]number, 0, 3)
	for _, v := range []int{n.value + 1, n.value - 1, n.value * 2} {
		if v >= 0 && v <= n.limit {
			out = append(out, number{value: v, limit: n.limit})
		}
	}
	return out
}

// shortestMoves counts moves by enumerating every value reachable in
// exactly d moves for increasing d.
func shortestMoves(start, target, limit int) int {
	layer := map[int]bool{start: true}
	for d := 0; d <= 2*limit; d++ {
		if layer[target] {
			return d
		}
		next := make(map[int]bool)
		for v := range layer {
			for _, n := range (number{value: v, limit: limit}).Next() {
				next[n.value] = true
			}
		}
		layer = next
	}
	return -1
}

func TestFindOne_BreadthFirstIsShortest(t *testing.T) {
	const limit = 40
	for target := 0; target <= limit; target++ {
		machine := statemachine.New(number{value: 1, limit: limit}, number{value: target, limit: limit})

		path, ok := machine.FindOne(statemachine.BreadthFirst[number])
		require.True(t, ok, "target=%d", target)
		assert.Len(t, path, shortestMoves(1, target, limit)+1, "target=%d", target)
		assert.Equal(t, 1, path[0].value)
		assert.Equal(t, target, path[len(path)-1].value)
	}
}

func TestFindOne_PathIsConnected(t *testing.T) {
	const limit = 30
	machine := statemachine.New(number{value: 3, limit: limit}, number{value: 29, limit: limit})

	for _, strategy := range []statemachine.Strategy[number]{
		statemachine.BreadthFirst[number],
		statemachine.DepthFirst[number],
	} {
		path, ok := machine.FindOne(strategy)
		require.True(t, ok)
		for i := 1; i < len(path); i++ {
			assert.Contains(t, path[i-1].Next(), path[i])
		}
	}
}

func TestFindOne_NoStateExpandedTwice(t *testing.T) {
	g := &graph{edges: map[string][]string{
		"s": {"a", "b"},
		"a": {"c", "s"},
		"b": {"c", "d"},
		"c": {"a", "b", "d"},
		"d": {"s"},
	}}
	machine := statemachine.NewWithPredicate(g.at("s"), func(vertex) bool { return false })

	for name, strategy := range map[string]statemachine.Strategy[vertex]{
		"bfs":       statemachine.BreadthFirst[vertex],
		"dfs":       statemachine.DepthFirst[vertex],
		"astar":     statemachine.AStar[vertex, float64](absDistance),
		"staggered": statemachine.Staggered[vertex, float64](absDistance),
	} {
		t.Run(name, func(t *testing.T) {
			stepper := machine.NewStepper(strategy)
			expanded := make(map[string]int)
			for {
				snapshot := stepper.Step()
				if snapshot.Done {
					assert.False(t, snapshot.Found)
					assert.Equal(t, 5, snapshot.StepIndex)
					break
				}
				expanded[snapshot.Current.name]++
			}
			assert.Equal(t, map[string]int{"s": 1, "a": 1, "b": 1, "c": 1, "d": 1}, expanded)
		})
	}
}

func TestFindOne_Unreachable(t *testing.T) {
	g := &graph{edges: map[string][]string{"s": {"a"}, "a": {"s"}}}
	machine := statemachine.New(g.at("s"), g.at("z"))

	path, ok := machine.FindOne(statemachine.BreadthFirst[vertex])
	assert.False(t, ok)
	assert.Nil(t, path)

	result := machine.FindOneWithChecks(statemachine.DepthFirst[vertex])
	assert.False(t, result.Found)
	assert.Equal(t, 2, result.Checks)

	assert.Empty(t, machine.FindAll(statemachine.BreadthFirst[vertex]))
}

func TestFindOne_InitialIsGoal(t *testing.T) {
	g := &graph{edges: map[string][]string{"s": {"a"}}}
	machine := statemachine.New(g.at("s"), g.at("s"))

	result := machine.FindOneWithChecks(statemachine.BreadthFirst[vertex])
	assert.True(t, result.Found)
	assert.Equal(t, 0, result.Checks)
	assert.Equal(t, []string{"s"}, names(result.Path))

	all := machine.FindAll(statemachine.BreadthFirst[vertex])
	require.Len(t, all, 1)
	assert.Equal(t, []string{"s"}, names(all[0]))
}

func TestFindOneWithChecks_CountsExpansions(t *testing.T) {
	g := &graph{edges: map[string][]string{
		"s": {"a", "b"},
		"a": {"c"},
		"b": {"g"},
		"c": {"g"},
	}}
	machine := statemachine.New(g.at("s"), g.at("g"))

	result := machine.FindOneWithChecks(statemachine.BreadthFirst[vertex])
	require.True(t, result.Found)
	// s, a, b: the goal is detected while expanding b
	assert.Equal(t, 3, result.Checks)
	assert.Equal(t, []string{"s", "b", "g"}, names(result.Path))
}

func TestFindAll_RecordsEveryGeneratedGoal(t *testing.T) {
	g := &graph{edges: map[string][]string{
		"s": {"a", "b", "c"},
		"a": {"g", "m"},
		"b": {"g", "m"},
		"c": {"x"},
		"m": {"g"},
	}}
	machine := statemachine.New(g.at("s"), g.at("g"))

	all := machine.FindAll(statemachine.BreadthFirst[vertex])
	got := make([][]string, 0, len(all))
	for _, path := range all {
		got = append(got, names(path))
	}

	// m is reached first through a, so the merge only reports that branch
	assert.Equal(t, [][]string{
		{"s", "a", "g"},
		{"s", "b", "g"},
		{"s", "a", "m", "g"},
	}, got)
}

func TestFindOne_NoLongerThanShortestOfFindAll(t *testing.T) {
	const limit = 24
	for _, target := range []int{0, 7, 13, 24} {
		machine := statemachine.New(number{value: 5, limit: limit}, number{value: target, limit: limit})

		all := machine.FindAll(statemachine.BreadthFirst[number])
		require.NotEmpty(t, all)
		shortest := len(all[0])
		for _, path := range all {
			shortest = min(shortest, len(path))
		}

		path, ok := machine.FindOne(statemachine.BreadthFirst[number])
		require.True(t, ok)
		assert.LessOrEqual(t, len(path), shortest, "target=%d", target)
	}
}

func TestFindOne_StaggeredPrefersShallowPaths(t *testing.T) {
	g := &graph{
		edges: map[string][]string{
			"s":  {"a", "b1"},
			"a":  {"g"},
			"b1": {"b2"},
			"b2": {"b3"},
			"b3": {"g"},
		},
		estimate: map[string]float64{"a": 10, "b1": 1, "b2": 1, "b3": 1},
	}
	machine := statemachine.New(g.at("s"), g.at("g"))

	staggered, ok := machine.FindOne(statemachine.Staggered[vertex, float64](absDistance))
	require.True(t, ok)
	assert.Equal(t, []string{"s", "a", "g"}, names(staggered))

	astar, ok := machine.FindOne(statemachine.AStar[vertex, float64](absDistance))
	require.True(t, ok)
	assert.Equal(t, []string{"s", "b1", "b2", "b3", "g"}, names(astar))
}

func TestMachine_TileBoard(t *testing.T) {
	start := tileboard.MustNew(2, 2, 1, 2, 0, 3)
	machine := statemachine.NewFinishing(start)

	tests := []struct {
		name     string
		strategy statemachine.Strategy[tileboard.Board]
		exact    bool
	}{
		{name: "bfs", strategy: statemachine.BreadthFirst[tileboard.Board], exact: true},
		{name: "astar", strategy: statemachine.AStar[tileboard.Board, grid.Coord](grid.Manhattan), exact: true},
		{name: "staggered", strategy: statemachine.Staggered[tileboard.Board, grid.Coord](grid.Manhattan), exact: true},
		{name: "dfs", strategy: statemachine.DepthFirst[tileboard.Board]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := machine.FindOne(tt.strategy)
			require.True(t, ok)
			assert.Equal(t, start, path[0])
			assert.True(t, path[len(path)-1].Finished())
			if tt.exact {
				assert.Len(t, path, 2)
			} else {
				assert.GreaterOrEqual(t, len(path), 2)
			}
		})
	}
}

func TestMachine_Reusable(t *testing.T) {
	start := tileboard.MustNew(3, 2, 1, 2, 3, 0, 4, 5)
	machine := statemachine.NewFinishing(start)

	first := machine.FindOneWithChecks(statemachine.BreadthFirst[tileboard.Board])
	second := machine.FindOneWithChecks(statemachine.BreadthFirst[tileboard.Board])
	require.True(t, first.Found)
	assert.Equal(t, first, second)

	astar, ok := machine.FindOne(statemachine.AStar[tileboard.Board, grid.Coord](grid.Manhattan))
	require.True(t, ok)
	assert.Len(t, astar, len(first.Path))
}
