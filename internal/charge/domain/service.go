package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/royalty/pkg/db/pagination"
)

type Service interface {
	RecordSale(ctx context.Context, event SaleEvent) (*Charge, error)
	RecordPlayCount(ctx context.Context, event PlayCountEvent) (AccrualResult, error)

	SettleAllForOwner(ctx context.Context, ownerID snowflake.ID, payoutMethodID string) (SettlementResult, error)
	SettleSpecific(ctx context.Context, chargeIDs []snowflake.ID, payoutMethodID string) (SettlementResult, error)
	SettleAllPending(ctx context.Context, payoutMethodID string) (SettlementResult, error)

	ListCharges(ctx context.Context, req ListRequest) (ListResponse, error)
	GetCharge(ctx context.Context, id snowflake.ID) (*ChargeView, error)
	MonthlySummary(ctx context.Context, req MonthlySummaryRequest) ([]MonthlySummary, error)
	BuildStatement(ctx context.Context, ownerID snowflake.ID, year, month int) (*Statement, error)
}

// PayoutMethodResolver is the identity/payment-method collaborator.
type PayoutMethodResolver interface {
	ResolvePayoutMethod(ctx context.Context, ownerID snowflake.ID) (string, error)
	ResolvePayoutMethodName(ctx context.Context, payoutMethodID string) (string, error)
}

// CatalogLookup is the catalog collaborator used for display titles.
type CatalogLookup interface {
	ContentTitle(ctx context.Context, contentType ContentType, contentID snowflake.ID) (string, error)
}

// ContentLocker serializes threshold evaluation per owner and track. The
// returned release func is always safe to call.
type ContentLocker interface {
	Acquire(ctx context.Context, ownerID, trackID snowflake.ID) (func(), error)
}

// ContentNotFoundTitle is shown when the catalog has no title for a charge's content.
const ContentNotFoundTitle = "Content not found"

type SaleEvent struct {
	OwnerID       snowflake.ID
	ContentType   ContentType
	ContentID     snowflake.ID
	SalePrice     decimal.Decimal
	SaleReference string
}

type PlayCountEvent struct {
	OwnerID    snowflake.ID
	TrackID    snowflake.ID
	TotalPlays int64
}

type AccrualOutcome string

const (
	AccrualOutcomeCharged        AccrualOutcome = "charged"
	AccrualOutcomeBelowThreshold AccrualOutcome = "below_threshold"
	AccrualOutcomeAlreadyBilled  AccrualOutcome = "already_billed"
	AccrualOutcomeFailed         AccrualOutcome = "failed"
)

type AccrualResult struct {
	Outcome              AccrualOutcome
	Milestone            int64
	LastBilledMilestone  int64
	PlaysToNextMilestone int64
	Charge               *Charge
}

type SkipReason string

const (
	SkipReasonNotFound   SkipReason = "not_found"
	SkipReasonNotPending SkipReason = "not_pending"
)

type SkippedCharge struct {
	ID     snowflake.ID
	Reason SkipReason
}

type SettlementResult struct {
	Requested      int
	Settled        int
	Skipped        []SkippedCharge
	TotalAmount    decimal.Decimal
	PayoutMethodID string
	PaidAt         time.Time
	SettlementRef  string
	Owners         int
}

type ListRequest struct {
	Filter   ChargeFilter
	SortBy   string
	OrderBy  string
	Page     int
	PageSize int
}

// ChargeView is a charge enriched with collaborator display data.
type ChargeView struct {
	Charge           Charge
	ContentTitle     string
	PayoutMethodName string
}

type ListResponse struct {
	Charges       []ChargeView
	PageInfo      pagination.PageInfo
	TotalAmount   decimal.Decimal
	PendingAmount decimal.Decimal
	PaidAmount    decimal.Decimal
}

type MonthlySummaryRequest struct {
	OwnerID snowflake.ID
	Year    *int
	// Order is "asc" or "desc" (default).
	Order string
}

type MonthlySummary struct {
	Year          int
	Month         int
	TotalAmount   decimal.Decimal
	PendingAmount decimal.Decimal
	PaidAmount    decimal.Decimal
	ChargeCount   int64
}

// Statement is one owner's charges for one calendar month.
type Statement struct {
	OwnerID       snowflake.ID
	Year          int
	Month         int
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Charges       []ChargeView
	TotalAmount   decimal.Decimal
	PendingAmount decimal.Decimal
	PaidAmount    decimal.Decimal
	GeneratedAt   time.Time
}
