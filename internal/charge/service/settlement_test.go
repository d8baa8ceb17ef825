package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAllForOwnerIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, other := env.node.Generate(), env.node.Generate()
	now := env.clock.Now()

	first8 := env.seed(t, owner, "8.00", chargedomain.ChargeStatusPending, now)
	first5 := env.seed(t, owner, "5.00", chargedomain.ChargeStatusPending, now)
	env.seed(t, other, "3.00", chargedomain.ChargeStatusPending, now)

	first, err := env.svc.SettleAllForOwner(ctx, owner, "pm_wire")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Settled)
	assert.Equal(t, "13.00", first.TotalAmount.StringFixed(2))
	assert.Equal(t, "pm_wire", first.PayoutMethodID)
	assert.Equal(t, now, first.PaidAt)
	assert.NotEmpty(t, first.SettlementRef)
	assert.Equal(t, 1, first.Owners)

	env.clock.Advance(24 * time.Hour)
	second, err := env.svc.SettleAllForOwner(ctx, owner, "pm_other")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Settled)
	assert.True(t, second.TotalAmount.IsZero())

	for _, id := range []snowflake.ID{first8.ID, first5.ID} {
		got, err := env.repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.PaidAt)
		assert.True(t, got.PaidAt.Equal(now), "paid_at moved to %s", got.PaidAt)
		require.NotNil(t, got.PayoutMethodID)
		assert.Equal(t, "pm_wire", *got.PayoutMethodID)
	}

	assert.Equal(t, int64(2), env.countCharges(t, "owner_id = ? AND status = ? AND settlement_ref = ?", owner, chargedomain.ChargeStatusPaid, first.SettlementRef))
	assert.Equal(t, int64(1), env.countCharges(t, "owner_id = ? AND status = ?", other, chargedomain.ChargeStatusPending))
}

func TestSettleAllForOwnerFallsBackToResolverThenDefault(t *testing.T) {
	resolver := &payoutMethodMock{}
	env := newTestEnv(t, withPayoutMethods(resolver))
	ctx := context.Background()
	withMethod, without := env.node.Generate(), env.node.Generate()
	resolver.On("ResolvePayoutMethod", mockAnything, withMethod).Return("pm_owner", nil)
	resolver.On("ResolvePayoutMethod", mockAnything, without).Return("", nil)

	env.seed(t, withMethod, "1.00", chargedomain.ChargeStatusPending, env.clock.Now())
	env.seed(t, without, "1.00", chargedomain.ChargeStatusPending, env.clock.Now())

	res, err := env.svc.SettleAllForOwner(ctx, withMethod, "")
	require.NoError(t, err)
	assert.Equal(t, "pm_owner", res.PayoutMethodID)

	res, err = env.svc.SettleAllForOwner(ctx, without, " ")
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", res.PayoutMethodID)
}

func TestSettleSpecificSettlesOnlyEligible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()
	now := env.clock.Now()

	var pending []chargedomain.Charge
	for i := 0; i < 5; i++ {
		pending = append(pending, env.seed(t, owner, "2.50", chargedomain.ChargeStatusPending, now))
	}
	paid := env.seed(t, owner, "9.00", chargedomain.ChargeStatusPaid, now)
	missing := env.node.Generate()

	ids := []snowflake.ID{pending[0].ID, pending[1].ID, pending[2].ID, pending[0].ID, paid.ID, missing}
	res, err := env.svc.SettleSpecific(ctx, ids, "pm_1")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Requested)
	assert.Equal(t, 3, res.Settled)
	assert.Equal(t, "7.50", res.TotalAmount.StringFixed(2))
	assert.ElementsMatch(t, []chargedomain.SkippedCharge{
		{ID: paid.ID, Reason: chargedomain.SkipReasonNotPending},
		{ID: missing, Reason: chargedomain.SkipReasonNotFound},
	}, res.Skipped)

	assert.Equal(t, int64(2), env.countCharges(t, "owner_id = ? AND status = ?", owner, chargedomain.ChargeStatusPending))

	var stamps []time.Time
	require.NoError(t, env.db.Model(&chargedomain.Charge{}).
		Where("settlement_ref = ?", res.SettlementRef).
		Pluck("paid_at", &stamps).Error)
	require.Len(t, stamps, 3)
	for _, ts := range stamps {
		assert.True(t, ts.Equal(res.PaidAt))
	}
}

func TestSettleSpecificRejectsEmptyIDs(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SettleSpecific(context.Background(), nil, "pm")
	assert.ErrorIs(t, err, chargedomain.ErrInvalidChargeIDs)

	_, err = env.svc.SettleSpecific(context.Background(), []snowflake.ID{0}, "pm")
	assert.ErrorIs(t, err, chargedomain.ErrInvalidChargeIDs)
}

func TestSettleAllPendingSweepsEveryOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := env.clock.Now()
	a, b := env.node.Generate(), env.node.Generate()

	env.seed(t, a, "1.10", chargedomain.ChargeStatusPending, now)
	env.seed(t, a, "2.20", chargedomain.ChargeStatusPending, now)
	env.seed(t, b, "3.30", chargedomain.ChargeStatusPending, now)
	env.seed(t, b, "4.00", chargedomain.ChargeStatusPaid, now)

	res, err := env.svc.SettleAllPending(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Settled)
	assert.Equal(t, "6.60", res.TotalAmount.StringFixed(2))
	assert.Equal(t, "DEFAULT", res.PayoutMethodID)
	assert.Equal(t, 2, res.Owners)
	assert.Equal(t, int64(0), env.countCharges(t, "status = ?", chargedomain.ChargeStatusPending))
}

func TestSettlementRollsBackWhenRaced(t *testing.T) {
	env := newTestEnv(t, withRepo(func(r chargedomain.Repository) chargedomain.Repository {
		return racingRepo{r}
	}))
	ctx := context.Background()
	owner := env.node.Generate()
	env.seed(t, owner, "1.00", chargedomain.ChargeStatusPending, env.clock.Now())
	env.seed(t, owner, "1.00", chargedomain.ChargeStatusPending, env.clock.Now())

	_, err := env.svc.SettleAllForOwner(ctx, owner, "pm")
	assert.ErrorIs(t, err, chargedomain.ErrConcurrentSettlement)
	assert.Equal(t, int64(2), env.countCharges(t, "owner_id = ? AND status = ?", owner, chargedomain.ChargeStatusPending))
}
