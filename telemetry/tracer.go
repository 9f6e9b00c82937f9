package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jchevertonwynne/statemachine"
)

const tracerName = "github.com/jchevertonwynne/statemachine"

// Tracer wraps an OpenTelemetry tracer provider for search runs.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	config   TracingConfig
}

// NewTracer creates a tracer. When tracing is disabled the provider has no
// exporter, so spans are created but never leave the process.
func NewTracer(cfg TracingConfig, serviceName, serviceVersion string) (*Tracer, error) {
	if !cfg.Enabled {
		provider := sdktrace.NewTracerProvider()
		return &Tracer{
			provider: provider,
			tracer:   provider.Tracer(tracerName),
			config:   cfg,
		}, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case "otlp":
		exporter, err = createOTLPExporter(cfg)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(cfg.ExportTimeout)))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(tracerName),
		config:   cfg,
	}, nil
}

func createOTLPExporter(cfg TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.New(context.Background(), opts...)
}

// StartRun opens a span covering one search run.
func (t *Tracer) StartRun(ctx context.Context, label string, attrs ...attribute.KeyValue) (context.Context, *SpanObserver) {
	attrs = append(attrs, attribute.String("search.label", label))
	ctx, span := t.tracer.Start(ctx, "search.run",
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	return ctx, &SpanObserver{span: span}
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// SpanObserver turns run events into span events and closes the span when
// the run finishes. Expansion events only update counters so long runs do
// not flood the span.
type SpanObserver struct {
	span       trace.Span
	expansions int
}

var _ statemachine.Observer = (*SpanObserver)(nil)

// Span returns the span the observer writes to.
func (o *SpanObserver) Span() trace.Span { return o.span }

func (o *SpanObserver) OnEvent(event statemachine.Event) {
	switch event.Type {
	case statemachine.EventRunStart:
		o.span.SetAttributes(attribute.String("search.run_id", event.RunID))
	case statemachine.EventExpand:
		o.expansions++
	case statemachine.EventSolution:
		o.span.AddEvent("search.solution", trace.WithAttributes(
			attribute.Int("search.path_length", event.PathLength),
			attribute.Int("search.checks", event.Checks),
		))
	case statemachine.EventRunFinish:
		o.span.SetAttributes(
			attribute.Bool("search.found", event.Found),
			attribute.Int("search.checks", event.Checks),
			attribute.Int("search.expansions", o.expansions),
			attribute.Int("search.seen", event.Seen),
			attribute.Int("search.frontier_remaining", event.Frontier),
		)
		if event.Found {
			o.span.SetStatus(codes.Ok, "")
		} else {
			o.span.SetStatus(codes.Unset, "no solution")
		}
		o.span.End()
	}
}
