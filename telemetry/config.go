package telemetry

import "time"

// Config groups the observability settings for a search session.
type Config struct {
	// ServiceName identifies the process in traces and metrics.
	ServiceName string `yaml:"service_name" validate:"required"`

	// ServiceVersion is the version of the binary.
	ServiceVersion string `yaml:"service_version"`

	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`

	// Format is console or json.
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`

	// Output is stdout, stderr or a file path.
	Output string `yaml:"output"`

	// EnableCaller adds file:line caller information to logs.
	EnableCaller bool `yaml:"enable_caller"`

	// TimeFormat is rfc3339, unix or unixms.
	TimeFormat string `yaml:"time_format" validate:"omitempty,oneof=rfc3339 unix unixms unixmicro"`
}

// TracingConfig configures OpenTelemetry tracing of search runs.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is stdout, otlp or none.
	Exporter string `yaml:"exporter" validate:"omitempty,oneof=stdout otlp none"`

	// Endpoint is the OTLP collector address.
	Endpoint string `yaml:"endpoint" validate:"required_if=Exporter otlp"`

	// SamplingRate is the trace sampling ratio (0.0 to 1.0).
	SamplingRate float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`

	// Insecure disables TLS for the OTLP exporter.
	Insecure bool `yaml:"insecure"`

	ExportTimeout time.Duration `yaml:"export_timeout"`
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// ListenAddress serves /metrics when non-empty.
	ListenAddress string `yaml:"listen_address"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" validate:"omitempty,alphanum"`

	// PathLengthBuckets are histogram buckets for solution lengths.
	PathLengthBuckets []float64 `yaml:"path_length_buckets"`
}

// DefaultConfig returns settings suitable for interactive use.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "statemachine",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			TimeFormat: "rfc3339",
		},
		Tracing: TracingConfig{
			Enabled:       false,
			Exporter:      "none",
			SamplingRate:  1.0,
			Insecure:      true,
			ExportTimeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:           false,
			Namespace:         "statemachine",
			PathLengthBuckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	}
}
