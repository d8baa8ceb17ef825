package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/royalty/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, charge *Charge) error
	// CreateIfAbsent inserts unless a row with the same dedupe key exists.
	CreateIfAbsent(ctx context.Context, charge *Charge) (bool, error)
	LastBilledMilestone(ctx context.Context, ownerID, trackID snowflake.ID) (int64, error)

	FindByID(ctx context.Context, id snowflake.ID) (*Charge, error)
	FindByIDs(ctx context.Context, ids []snowflake.ID) ([]Charge, error)
	ListPending(ctx context.Context, ownerID *snowflake.ID) ([]Charge, error)
	MarkPaid(ctx context.Context, ids []snowflake.ID, params MarkPaidParams) (int64, error)

	List(ctx context.Context, filter ChargeFilter, sort SortOptions, page pagination.Pagination) ([]Charge, int64, error)
	Totals(ctx context.Context, filter ChargeFilter) (Totals, error)
	Find(ctx context.Context, filter ChargeFilter) ([]Charge, error)
}

type MarkPaidParams struct {
	PayoutMethodID string
	PaidAt         time.Time
	SettlementRef  string
}

type SortOptions struct {
	SortBy  string
	OrderBy string
}

// Totals are sums over a filtered charge set; Total always equals Pending + Paid.
type Totals struct {
	Total   decimal.Decimal
	Pending decimal.Decimal
	Paid    decimal.Decimal
	Count   int64
}
