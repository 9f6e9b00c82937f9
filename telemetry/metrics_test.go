package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchevertonwynne/statemachine"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	cfg := DefaultConfig().Metrics
	cfg.Enabled = true
	m, err := NewMetrics(cfg)
	require.NoError(t, err)
	return m
}

func TestMetrics_Disabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{})
	require.NoError(t, err)

	assert.False(t, m.Enabled())
	assert.Nil(t, m.Registry())
	assert.NotPanics(t, func() {
		m.OnEvent(statemachine.Event{Type: statemachine.EventRunStart, RunID: "r"})
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_RunLifecycle(t *testing.T) {
	m := newTestMetrics(t)
	clock := time.Unix(1000, 0)
	m.now = func() time.Time { return clock }

	m.OnEvent(statemachine.Event{Type: statemachine.EventRunStart, RunID: "r1", Label: "bfs"})
	m.OnEvent(statemachine.Event{Type: statemachine.EventExpand, RunID: "r1", Label: "bfs", Frontier: 4, Successors: 3})
	m.OnEvent(statemachine.Event{Type: statemachine.EventExpand, RunID: "r1", Label: "bfs", Frontier: 6, Successors: 2})
	m.OnEvent(statemachine.Event{Type: statemachine.EventSolution, RunID: "r1", Label: "bfs", PathLength: 5})
	clock = clock.Add(2 * time.Second)
	m.OnEvent(statemachine.Event{Type: statemachine.EventRunFinish, RunID: "r1", Label: "bfs", Found: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsStarted.WithLabelValues("bfs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsCompleted.WithLabelValues("bfs", "found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.runsCompleted.WithLabelValues("bfs", "exhausted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.expansions.WithLabelValues("bfs")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.frontierSize.WithLabelValues("bfs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.solutions.WithLabelValues("bfs")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pathLength))
	assert.Empty(t, m.started)
}

func TestMetrics_Exhausted(t *testing.T) {
	m := newTestMetrics(t)

	m.OnEvent(statemachine.Event{Type: statemachine.EventRunStart, RunID: "r1", Label: "dfs"})
	m.OnEvent(statemachine.Event{Type: statemachine.EventRunFinish, RunID: "r1", Label: "dfs"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsCompleted.WithLabelValues("dfs", "exhausted")))
}

func TestMetrics_ObservesMachine(t *testing.T) {
	m := newTestMetrics(t)

	_, ok := statemachine.New(counter{limit: 5}, counter{value: 5, limit: 5},
		statemachine.WithLabel("bfs"),
		statemachine.WithObserver(m),
	).FindOne(statemachine.BreadthFirst[counter])
	require.True(t, ok)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.expansions.WithLabelValues("bfs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsCompleted.WithLabelValues("bfs", "found")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "statemachine_expansions_total")
}

// counter counts up to limit.
type counter struct {
	value int
	limit int
}

func (c counter) Next() []counter {
	if c.value >= c.limit {
		return nil
	}
	return []counter{{value: c.value + 1, limit: c.limit}}
}
