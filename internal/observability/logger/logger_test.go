package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/royalty/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithOwnerTagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	WithOwner(zap.New(core), " 42 ").Warn("payout method lookup failed")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "42", logs.All()[0].ContextMap()["owner_id"])
	assert.Nil(t, WithOwner(nil, "42"))
}

func TestWithContextCarriesCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithOwnerID(ctx, "7")

	WithContext(ctx, zap.New(core)).Info("settled")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "7", fields["owner_id"])
}
