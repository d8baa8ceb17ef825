package metrics

import (
	"context"
	"fmt"
	"strings"
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
	Environment      string
}

// Metrics exposes royalty-level instruments.
type Metrics struct {
	chargesCreated  metric.Int64Counter
	chargesSettled  metric.Int64Counter
	accrualOutcomes metric.Int64Counter
	settledAmount   metric.Float64Counter
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

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "royalty"
	}
	meter := provider.Meter(name)

	chargesCreated, err := meter.Int64Counter("royalty_charges_created_total")
	if err != nil {
		return nil, err
	}
	chargesSettled, err := meter.Int64Counter("royalty_charges_settled_total")
	if err != nil {
		return nil, err
	}
	accrualOutcomes, err := meter.Int64Counter("royalty_accrual_outcomes_total")
	if err != nil {
		return nil, err
	}
	settledAmount, err := meter.Float64Counter("royalty_settled_amount_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		chargesCreated:  chargesCreated,
		chargesSettled:  chargesSettled,
		accrualOutcomes: accrualOutcomes,
		settledAmount:   settledAmount,
	}, nil
}

// RecordChargeCreated increments created charge counts.
func (m *Metrics) RecordChargeCreated(ctx context.Context, chargeType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("charge_type", strings.TrimSpace(chargeType)))
	m.chargesCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordChargesSettled records a settlement batch.
func (m *Metrics) RecordChargesSettled(ctx context.Context, source string, count int, amount float64) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.chargesSettled.Add(ctx, int64(count), metric.WithAttributes(attrs...))
	m.settledAmount.Add(ctx, amount, metric.WithAttributes(attrs...))
}

// RecordAccrualOutcome increments threshold accrual outcomes by reason.
func (m *Metrics) RecordAccrualOutcome(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.accrualOutcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"charge_type":  {},
	"content_type": {},
	"source":       {},
	"reason":       {},
	"method":       {},
	"route":        {},
	"status_code":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
