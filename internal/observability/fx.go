package observability

import (
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	"github.com/clinicore/clinicore/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(newMetricsConfig),
	fx.Provide(metrics.NewProvider),
	fx.Provide(metrics.New),
	fx.Provide(newTracingConfig),
	// Registers the global tracer provider; instrumentation reaches it
	// through the otel globals rather than injection.
	fx.Invoke(tracing.NewProvider),
)

func newMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.Metrics.Enabled,
		ExporterEndpoint: cfg.Metrics.Endpoint,
		ExporterProtocol: cfg.Metrics.Exporter,
		ServiceName:      cfg.AppName,
	}
}

func newTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ExporterEndpoint: cfg.Tracing.Endpoint,
		ExporterProtocol: cfg.Tracing.Exporter,
		ServiceName:      cfg.AppName,
		ServiceVersion:   cfg.AppVersion,
		Environment:      cfg.Environment,
	}
}
