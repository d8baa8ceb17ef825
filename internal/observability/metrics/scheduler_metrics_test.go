package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifySchedulerJobReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: SchedulerJobReasonDeadlineExceeded},
		{name: "concurrent_settlement", err: fmt.Errorf("settle: %w", chargedomain.ErrConcurrentSettlement), want: SchedulerJobReasonConcurrentSettlement},
		{name: "db_lock_timeout", err: &pgconn.PgError{Code: "55P03"}, want: SchedulerJobReasonDBLockTimeout},
		{name: "serialization_failure", err: &pgconn.PgError{Code: "40001"}, want: SchedulerJobReasonSerializationFailure},
		{name: "unique_violation", err: gorm.ErrDuplicatedKey, want: SchedulerJobReasonUniqueViolation},
		{name: "unknown", err: errors.New("boom"), want: SchedulerJobReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySchedulerJobReason(tc.err))
		})
	}
}

func TestClassifySchedulerErrorType(t *testing.T) {
	assert.Equal(t, SchedulerErrorTypeUnknown, ClassifySchedulerErrorType(nil))
	assert.Equal(t, SchedulerErrorTypeConflict, ClassifySchedulerErrorType(chargedomain.ErrConcurrentSettlement))
	assert.Equal(t, SchedulerErrorTypeDB, ClassifySchedulerErrorType(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, SchedulerErrorTypeBusinessRule, ClassifySchedulerErrorType(chargedomain.ErrInvalidOwner))
	assert.True(t, IsSchedulerErrorRetryable(chargedomain.ErrConcurrentSettlement))
	assert.False(t, IsSchedulerErrorRetryable(chargedomain.ErrInvalidOwner))
}

func TestAddBatchProcessed(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newSchedulerMetrics(registry, Config{
		ServiceName: "royalty",
		Environment: "test",
	})

	metrics.AddBatchProcessed("monthly_settlement", "charges", 3)
	metrics.AddBatchProcessed("monthly_settlement", "charges", 0)

	got := testutil.ToFloat64(metrics.batchProcessed.WithLabelValues("monthly_settlement", "charges"))
	assert.Equal(t, float64(3), got)
}
