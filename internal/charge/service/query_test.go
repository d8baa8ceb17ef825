package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListChargesTotalsConserveAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()
	now := env.clock.Now()

	for _, amount := range []string{"0.10", "0.20", "0.33"} {
		env.seed(t, owner, amount, chargedomain.ChargeStatusPending, now)
	}
	env.seed(t, owner, "8.00", chargedomain.ChargeStatusPaid, now)

	resp, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter:   chargedomain.ChargeFilter{OwnerID: &owner},
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Charges, 2)
	assert.Equal(t, int64(4), resp.PageInfo.TotalItems)
	assert.True(t, resp.PageInfo.HasMore)
	assert.Equal(t, "0.63", resp.PendingAmount.StringFixed(2))
	assert.Equal(t, "8.00", resp.PaidAmount.StringFixed(2))
	assert.True(t, resp.TotalAmount.Equal(resp.PendingAmount.Add(resp.PaidAmount)))
}

func TestListChargesMonthYearMatchesExplicitRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()

	env.seed(t, owner, "1.00", chargedomain.ChargeStatusPending, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))
	env.seed(t, owner, "2.00", chargedomain.ChargeStatusPending, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	env.seed(t, owner, "3.00", chargedomain.ChargeStatusPaid, time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC))
	env.seed(t, owner, "4.00", chargedomain.ChargeStatusPending, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	env.seed(t, owner, "5.00", chargedomain.ChargeStatusPending, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	month, year := 3, 2024
	byMonth, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter: chargedomain.ChargeFilter{Month: &month, Year: &year},
	})
	require.NoError(t, err)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	byRange, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter: chargedomain.ChargeFilter{From: &from, To: &to},
	})
	require.NoError(t, err)

	assert.Equal(t, ids(byRange.Charges), ids(byMonth.Charges))
	assert.Len(t, byMonth.Charges, 3)
	assert.Equal(t, "9.00", byMonth.TotalAmount.StringFixed(2))

	// Month/year overrides an explicit range that would otherwise exclude March.
	janFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	janTo := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	overridden, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter: chargedomain.ChargeFilter{From: &janFrom, To: &janTo, Month: &month, Year: &year},
	})
	require.NoError(t, err)
	assert.Len(t, overridden.Charges, 3)

	badMonth := 13
	ignored, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter: chargedomain.ChargeFilter{Month: &badMonth, Year: &year},
	})
	require.NoError(t, err)
	assert.Len(t, ignored.Charges, 5)
}

func TestListChargesCombinesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()
	now := env.clock.Now()

	env.seed(t, owner, "1.00", chargedomain.ChargeStatusPending, now)
	env.seed(t, owner, "5.00", chargedomain.ChargeStatusPending, now)
	env.seed(t, owner, "5.00", chargedomain.ChargeStatusPaid, now)
	env.seed(t, env.node.Generate(), "5.00", chargedomain.ChargeStatusPending, now)

	status := chargedomain.ChargeStatusPending
	chargeType := chargedomain.ChargeTypePurchase
	contentType := chargedomain.ContentTypeAlbum
	min := decimal.RequireFromString("2")
	resp, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter: chargedomain.ChargeFilter{
			OwnerID:     &owner,
			Status:      &status,
			ChargeType:  &chargeType,
			ContentType: &contentType,
			MinAmount:   &min,
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Charges, 1)
	assert.Equal(t, "5.00", resp.Charges[0].Charge.Amount.StringFixed(2))

	max := decimal.RequireFromString("1")
	_, err = env.svc.ListCharges(ctx, chargedomain.ListRequest{
		Filter: chargedomain.ChargeFilter{MinAmount: &min, MaxAmount: &max},
	})
	assert.ErrorIs(t, err, chargedomain.ErrInvalidAmountRange)
}

func TestListChargesSortsByAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.node.Generate()
	now := env.clock.Now()

	env.seed(t, owner, "3.00", chargedomain.ChargeStatusPending, now)
	env.seed(t, owner, "1.00", chargedomain.ChargeStatusPending, now.Add(time.Minute))
	env.seed(t, owner, "2.00", chargedomain.ChargeStatusPending, now.Add(2*time.Minute))

	resp, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{SortBy: "amount", OrderBy: "asc"})
	require.NoError(t, err)
	require.Len(t, resp.Charges, 3)
	assert.Equal(t, []string{"1.00", "2.00", "3.00"}, amounts(resp.Charges))

	resp, err = env.svc.ListCharges(ctx, chargedomain.ListRequest{SortBy: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2.00", "1.00", "3.00"}, amounts(resp.Charges))
}

func TestListChargesEnrichesWithCachedLookups(t *testing.T) {
	resolver := &payoutMethodMock{}
	catalog := &catalogMock{}
	env := newTestEnv(t, withPayoutMethods(resolver), withCatalog(catalog))
	ctx := context.Background()
	owner := env.node.Generate()

	resolver.On("ResolvePayoutMethod", mockAnything, owner).Return("pm_1", nil)
	resolver.On("ResolvePayoutMethodName", mockAnything, "pm_1").Return("Main bank account", nil).Once()

	track := env.node.Generate()
	catalog.On("ContentTitle", mockAnything, chargedomain.ContentTypeTrack, track).Return("Blue Monday", nil).Once()
	album := env.node.Generate()
	catalog.On("ContentTitle", mockAnything, chargedomain.ContentTypeAlbum, album).Return("", errors.New("catalog down")).Once()

	for i := 0; i < 2; i++ {
		_, err := env.svc.RecordSale(ctx, chargedomain.SaleEvent{
			OwnerID: owner, ContentType: chargedomain.ContentTypeTrack, ContentID: track, SalePrice: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}
	_, err := env.svc.RecordSale(ctx, chargedomain.SaleEvent{
		OwnerID: owner, ContentType: chargedomain.ContentTypeAlbum, ContentID: album, SalePrice: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	resp, err := env.svc.ListCharges(ctx, chargedomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Charges, 3)

	titles := map[string]int{}
	for _, view := range resp.Charges {
		titles[view.ContentTitle]++
		assert.Equal(t, "Main bank account", view.PayoutMethodName)
	}
	assert.Equal(t, map[string]int{"Blue Monday": 2, chargedomain.ContentNotFoundTitle: 1}, titles)
	resolver.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestGetCharge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seeded := env.seed(t, env.node.Generate(), "4.20", chargedomain.ChargeStatusPending, env.clock.Now())

	view, err := env.svc.GetCharge(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, view.Charge.ID)
	assert.Equal(t, chargedomain.ContentNotFoundTitle, view.ContentTitle)

	_, err = env.svc.GetCharge(ctx, env.node.Generate())
	assert.ErrorIs(t, err, chargedomain.ErrNotFound)
}

func ids(views []chargedomain.ChargeView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Charge.ID.String())
	}
	return out
}

func amounts(views []chargedomain.ChargeView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Charge.Amount.StringFixed(2))
	}
	return out
}
