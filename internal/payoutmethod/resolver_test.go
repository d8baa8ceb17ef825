package payoutmethod

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&PayoutMethod{}))
	return db
}

func TestResolverPicksOldestActiveMethod(t *testing.T) {
	db := setupDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []PayoutMethod{
		{ID: "pm_inactive", OwnerID: 7, DisplayName: "Closed account", IsActive: false, CreatedAt: base},
		{ID: "pm_second", OwnerID: 7, DisplayName: "Savings", IsActive: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "pm_first", OwnerID: 7, DisplayName: "Checking", IsActive: true, CreatedAt: base.Add(time.Hour)},
		{ID: "pm_other", OwnerID: 8, DisplayName: "Other owner", IsActive: true, CreatedAt: base},
	}
	// IsActive=false is a zero value; Select forces it into the insert.
	for _, row := range rows {
		require.NoError(t, db.Select("*").Create(&row).Error)
	}

	r := NewResolver(db, NewRepository())
	ctx := context.Background()

	id, err := r.ResolvePayoutMethod(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "pm_first", id)

	id, err = r.ResolvePayoutMethod(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, id)

	name, err := r.ResolvePayoutMethodName(ctx, "pm_second")
	require.NoError(t, err)
	assert.Equal(t, "Savings", name)

	name, err = r.ResolvePayoutMethodName(ctx, "pm_missing")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestNoopResolvesNothing(t *testing.T) {
	id, err := Noop{}.ResolvePayoutMethod(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, id)

	name, err := Noop{}.ResolvePayoutMethodName(context.Background(), "pm")
	assert.NoError(t, err)
	assert.Empty(t, name)
}
