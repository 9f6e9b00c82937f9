// Package statemachine provides a generic state-space search engine.
//
// A domain supplies a comparable State type whose Next method generates the
// implicit graph. A Machine pairs an initial state with a goal (an explicit
// state, a predicate, or the state's own Finished method) and searches with
// any Strategy:
//
//   - BreadthFirst: FIFO, shortest paths by transition count.
//   - DepthFirst: LIFO, a baseline with no length guarantee.
//   - AStar: heuristic estimate plus path length.
//   - Staggered: one heuristic-ordered bucket per path length, shallowest first.
//
// Paths are tracked with History, a persistent list whose Push shares the
// existing entries, so expanding a node never copies its path.
//
// It exposes three entry points on Machine plus a step-at-a-time driver:
//
//   - FindOne / FindOneWithChecks: stop at the first goal generated.
//   - FindAll: drain the frontier, collecting every path to a goal.
//   - NewStepper: iterate a run one expansion at a time for UIs or debugging.
//
// Runs are single-threaded and synchronous. An unreachable goal is reported
// as a missing result, never an error.
package statemachine
