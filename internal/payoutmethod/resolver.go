package payoutmethod

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"gorm.io/gorm"
)

// Resolver answers payout method questions from the payout_methods table.
type Resolver struct {
	db   *gorm.DB
	repo Repository
}

func NewResolver(db *gorm.DB, repo Repository) *Resolver {
	return &Resolver{db: db, repo: repo}
}

// ResolvePayoutMethod returns the owner's oldest active method, or "" when
// the owner has none.
func (r *Resolver) ResolvePayoutMethod(ctx context.Context, ownerID snowflake.ID) (string, error) {
	if ownerID == 0 {
		return "", nil
	}
	item, err := r.repo.FindFirstActive(ctx, r.db, ownerID)
	if err != nil || item == nil {
		return "", err
	}
	return item.ID, nil
}

func (r *Resolver) ResolvePayoutMethodName(ctx context.Context, payoutMethodID string) (string, error) {
	payoutMethodID = strings.TrimSpace(payoutMethodID)
	if payoutMethodID == "" {
		return "", nil
	}
	item, err := r.repo.FindByID(ctx, r.db, payoutMethodID)
	if err != nil || item == nil {
		return "", err
	}
	return item.DisplayName, nil
}

// Noop never resolves anything.
type Noop struct{}

func (Noop) ResolvePayoutMethod(context.Context, snowflake.ID) (string, error) { return "", nil }

func (Noop) ResolvePayoutMethodName(context.Context, string) (string, error) { return "", nil }

var (
	_ chargedomain.PayoutMethodResolver = (*Resolver)(nil)
	_ chargedomain.PayoutMethodResolver = Noop{}
)
