package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	invoicesIssued metric.Int64Counter
	eventsAppended metric.Int64Counter
	auditEntries   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch protocol {
	case "http":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter protocol %q", protocol)
	}
}

// New registers the application instruments on the provider's meter.
func New(provider metric.MeterProvider, cfg Config) (*Metrics, error) {
	name := cfg.ServiceName
	if name == "" {
		name = "clinicore"
	}
	meter := provider.Meter(name)

	invoicesIssued, err := meter.Int64Counter("clinicore.invoices.issued",
		metric.WithDescription("Invoice numbers issued from the sequence counter"))
	if err != nil {
		return nil, err
	}

	eventsAppended, err := meter.Int64Counter("clinicore.events.appended",
		metric.WithDescription("Domain events appended to the durable log"))
	if err != nil {
		return nil, err
	}

	auditEntries, err := meter.Int64Counter("clinicore.audit.entries",
		metric.WithDescription("Audit trail entries written"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoicesIssued: invoicesIssued,
		eventsAppended: eventsAppended,
		auditEntries:   auditEntries,
	}, nil
}

// NewNop returns instruments backed by a noop provider, for tests.
func NewNop() *Metrics {
	m, _ := New(noop.NewMeterProvider(), Config{})
	return m
}

func (m *Metrics) RecordInvoiceIssued(ctx context.Context, year int) {
	if m == nil {
		return
	}
	m.invoicesIssued.Add(ctx, 1, metric.WithAttributes(attribute.Int("year", year)))
}

func (m *Metrics) RecordEventAppended(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.eventsAppended.Add(ctx, 1, metric.WithAttributes(attribute.String("event", name)))
}

func (m *Metrics) RecordAuditEntry(ctx context.Context, entityType string) {
	if m == nil {
		return
	}
	m.auditEntries.Add(ctx, 1, metric.WithAttributes(attribute.String("entity_type", entityType)))
}
