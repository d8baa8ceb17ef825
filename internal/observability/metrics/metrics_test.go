package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("owner_id", "123"),
		attribute.String("charge_type", "PURCHASE"),
		attribute.String("track_id", "456"),
		attribute.String("reason", "charged"),
	)
	require.Len(t, attrs, 2)
	keys := []attribute.Key{attrs[0].Key, attrs[1].Key}
	assert.Contains(t, keys, attribute.Key("charge_type"))
	assert.Contains(t, keys, attribute.Key("reason"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordChargeCreated(ctx, "PURCHASE")
	m.RecordChargesSettled(ctx, "owner", 2, 10)
	m.RecordAccrualOutcome(ctx, "charged")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	require.NotNil(t, m)
	m.RecordChargeCreated(context.Background(), "PLAY_THRESHOLD")
}
