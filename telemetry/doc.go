// Package telemetry provides the observability stack for search runs:
// structured logging with zerolog, Prometheus metrics and OpenTelemetry
// traces.
//
// Metrics and SpanObserver both implement statemachine.Observer and are
// attached to a Machine with statemachine.WithObserver:
//
//	metrics, _ := telemetry.NewMetrics(cfg.Metrics)
//	ctx, span := tracer.StartRun(ctx, "astar")
//	m := statemachine.NewFinishing(board,
//	    statemachine.WithLabel("astar"),
//	    statemachine.WithObserver(metrics, span),
//	)
package telemetry
