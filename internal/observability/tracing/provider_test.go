package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func TestSafeAttributesKeepsAllowList(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/charges"),
		attribute.String("owner_id", "42"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorTruncates(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	err := SafeError(errors.New(strings.Repeat("x", 400)))
	require.Error(t, err)
	assert.Len(t, err.Error(), maxErrorLength)
}

func TestNewProviderDisabledHasNoExporter(t *testing.T) {
	provider, err := NewProvider(nil, Config{Enabled: false, SamplingRatio: 2}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)
}
