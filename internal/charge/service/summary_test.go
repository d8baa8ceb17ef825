package service

import (
	"context"
	"testing"
	"time"

	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlySummaryGroupsByMonth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()

	env.seed(t, owner, "1.00", chargedomain.ChargeStatusPending, time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC))
	env.seed(t, owner, "2.00", chargedomain.ChargeStatusPending, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	env.seed(t, owner, "3.00", chargedomain.ChargeStatusPaid, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	env.seed(t, owner, "4.00", chargedomain.ChargeStatusPaid, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	env.seed(t, env.node.Generate(), "9.00", chargedomain.ChargeStatusPaid, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	rows, err := env.svc.MonthlySummary(ctx, chargedomain.MonthlySummaryRequest{OwnerID: owner})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, [2]int{2024, 3}, [2]int{rows[0].Year, rows[0].Month})
	assert.Equal(t, [2]int{2024, 1}, [2]int{rows[1].Year, rows[1].Month})
	assert.Equal(t, [2]int{2023, 12}, [2]int{rows[2].Year, rows[2].Month})

	jan := rows[1]
	assert.Equal(t, int64(2), jan.ChargeCount)
	assert.Equal(t, "5.00", jan.TotalAmount.StringFixed(2))
	assert.Equal(t, "2.00", jan.PendingAmount.StringFixed(2))
	assert.Equal(t, "3.00", jan.PaidAmount.StringFixed(2))

	asc, err := env.svc.MonthlySummary(ctx, chargedomain.MonthlySummaryRequest{OwnerID: owner, Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 2023, asc[0].Year)

	year := 2024
	only2024, err := env.svc.MonthlySummary(ctx, chargedomain.MonthlySummaryRequest{OwnerID: owner, Year: &year})
	require.NoError(t, err)
	assert.Len(t, only2024, 2)
}

func TestMonthlySummaryValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.MonthlySummary(context.Background(), chargedomain.MonthlySummaryRequest{})
	assert.ErrorIs(t, err, chargedomain.ErrInvalidOwner)

	year := 0
	_, err = env.svc.MonthlySummary(context.Background(), chargedomain.MonthlySummaryRequest{OwnerID: 1, Year: &year})
	assert.ErrorIs(t, err, chargedomain.ErrInvalidYear)

	rows, err := env.svc.MonthlySummary(context.Background(), chargedomain.MonthlySummaryRequest{OwnerID: 1})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBuildStatement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()

	env.seed(t, owner, "2.00", chargedomain.ChargeStatusPending, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	env.seed(t, owner, "3.00", chargedomain.ChargeStatusPaid, time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC))
	env.seed(t, owner, "7.00", chargedomain.ChargeStatusPaid, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	stmt, err := env.svc.BuildStatement(ctx, owner, 2024, 2)
	require.NoError(t, err)
	assert.Len(t, stmt.Charges, 2)
	assert.Equal(t, "5.00", stmt.TotalAmount.StringFixed(2))
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), stmt.PeriodEnd)
	assert.Equal(t, env.clock.Now(), stmt.GeneratedAt)

	_, err = env.svc.BuildStatement(ctx, owner, 2024, 13)
	assert.ErrorIs(t, err, chargedomain.ErrInvalidMonth)
}
