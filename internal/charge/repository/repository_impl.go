package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	dbpkg "github.com/smallbiznis/royalty/pkg/db"
	"github.com/smallbiznis/royalty/pkg/db/option"
	"github.com/smallbiznis/royalty/pkg/db/pagination"
	"github.com/smallbiznis/royalty/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var sortableColumns = map[string]bool{
	"amount":     true,
	"created_at": true,
}

type chargeRepository struct {
	db    *gorm.DB
	store repository.Repository[chargedomain.Charge]
}

func NewRepository(db *gorm.DB) chargedomain.Repository {
	return &chargeRepository{
		db:    db,
		store: repository.ProvideStore[chargedomain.Charge](db),
	}
}

func (r *chargeRepository) WithTx(tx *gorm.DB) chargedomain.Repository {
	return &chargeRepository{
		db:    tx,
		store: r.store.WithTrx(tx),
	}
}

func (r *chargeRepository) Create(ctx context.Context, charge *chargedomain.Charge) error {
	return r.store.Create(ctx, charge)
}

func (r *chargeRepository) CreateIfAbsent(ctx context.Context, charge *chargedomain.Charge) (bool, error) {
	if charge.DedupeKey == nil {
		return false, errors.New("dedupe key is required")
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(charge)
	if result.Error != nil {
		// Unique violations the conflict target does not cover still mean
		// the milestone is already billed.
		if dbpkg.IsDuplicateKeyErr(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *chargeRepository) LastBilledMilestone(ctx context.Context, ownerID, trackID snowflake.ID) (int64, error) {
	var milestone int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(cumulative_plays_at_charge), 0)
		 FROM charges
		 WHERE owner_id = ? AND track_id = ? AND content_type = ? AND charge_type = ?`,
		ownerID,
		trackID,
		chargedomain.ContentTypeTrack,
		chargedomain.ChargeTypePlayThreshold,
	).Scan(&milestone).Error
	if err != nil {
		return 0, err
	}
	return milestone, nil
}

func (r *chargeRepository) FindByID(ctx context.Context, id snowflake.ID) (*chargedomain.Charge, error) {
	return r.store.FindOne(ctx, &chargedomain.Charge{ID: id})
}

func (r *chargeRepository) FindByIDs(ctx context.Context, ids []snowflake.ID) ([]chargedomain.Charge, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items, err := r.store.Find(ctx, &chargedomain.Charge{},
		option.ApplyOperator(option.Condition{Field: "id", Operator: option.IN, Value: ids}),
	)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *chargeRepository) ListPending(ctx context.Context, ownerID *snowflake.ID) ([]chargedomain.Charge, error) {
	status := chargedomain.ChargeStatusPending
	items, err := r.store.Find(ctx, &chargedomain.Charge{},
		append(filterOptions(chargedomain.ChargeFilter{OwnerID: ownerID, Status: &status}),
			option.WithSortBy(option.QuerySortBy{Default: "id", Order: option.Asc}),
		)...,
	)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

// MarkPaid only touches rows still PENDING; the caller compares the returned
// count against the ids it selected.
func (r *chargeRepository) MarkPaid(ctx context.Context, ids []snowflake.ID, params chargedomain.MarkPaidParams) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&chargedomain.Charge{}).
		Where("id IN ? AND status = ?", ids, chargedomain.ChargeStatusPending).
		Updates(map[string]any{
			"status":           chargedomain.ChargeStatusPaid,
			"payout_method_id": params.PayoutMethodID,
			"paid_at":          params.PaidAt,
			"settlement_ref":   params.SettlementRef,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *chargeRepository) List(ctx context.Context, filter chargedomain.ChargeFilter, sort chargedomain.SortOptions, page pagination.Pagination) ([]chargedomain.Charge, int64, error) {
	opts := filterOptions(filter)

	total, err := r.store.Count(ctx, &chargedomain.Charge{}, opts...)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []chargedomain.Charge{}, 0, nil
	}

	order := option.Desc
	if sort.OrderBy == string(option.Asc) {
		order = option.Asc
	}
	opts = append(opts,
		option.WithSortBy(option.WithQuerySortBy(sort.SortBy, order, sortableColumns).
			WithDefault("created_at").
			WithTieBreaker("id")),
		option.WithLimit(page.Limit()),
		option.WithOffset(page.Offset()),
	)

	items, err := r.store.Find(ctx, &chargedomain.Charge{}, opts...)
	if err != nil {
		return nil, 0, err
	}
	return deref(items), total, nil
}

type statusTotal struct {
	Status string
	Amount decimal.NullDecimal
	Count  int64
}

func (r *chargeRepository) Totals(ctx context.Context, filter chargedomain.ChargeFilter) (chargedomain.Totals, error) {
	stmt := r.db.WithContext(ctx).Model(&chargedomain.Charge{})
	for _, opt := range filterOptions(filter) {
		stmt = opt.Apply(stmt)
	}

	var rows []statusTotal
	err := stmt.
		Select("status, SUM(amount) AS amount, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return chargedomain.Totals{}, err
	}

	totals := chargedomain.Totals{
		Total:   decimal.Zero,
		Pending: decimal.Zero,
		Paid:    decimal.Zero,
	}
	for _, row := range rows {
		amount := decimal.Zero
		if row.Amount.Valid {
			amount = row.Amount.Decimal.Round(2)
		}
		switch chargedomain.ChargeStatus(row.Status) {
		case chargedomain.ChargeStatusPending:
			totals.Pending = totals.Pending.Add(amount)
		case chargedomain.ChargeStatusPaid:
			totals.Paid = totals.Paid.Add(amount)
		}
		totals.Count += row.Count
	}
	totals.Total = totals.Pending.Add(totals.Paid)
	return totals, nil
}

func (r *chargeRepository) Find(ctx context.Context, filter chargedomain.ChargeFilter) ([]chargedomain.Charge, error) {
	items, err := r.store.Find(ctx, &chargedomain.Charge{},
		append(filterOptions(filter),
			option.WithSortBy(option.QuerySortBy{Default: "created_at", Order: option.Asc, TieBreaker: "id"}),
		)...,
	)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

// filterOptions turns the non-nil fields of a resolved filter into AND-ed predicates.
func filterOptions(filter chargedomain.ChargeFilter) []option.QueryOption {
	var opts []option.QueryOption
	eq := func(field string, value any) {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: field, Operator: option.EQ, Value: value}))
	}

	if filter.OwnerID != nil {
		eq("owner_id", *filter.OwnerID)
	}
	if filter.Status != nil {
		eq("status", *filter.Status)
	}
	if filter.ChargeType != nil {
		eq("charge_type", *filter.ChargeType)
	}
	if filter.ContentType != nil {
		eq("content_type", *filter.ContentType)
	}
	if filter.From != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "created_at", Operator: option.GTE, Value: *filter.From}))
	}
	if filter.To != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "created_at", Operator: option.LTE, Value: *filter.To}))
	}
	if filter.MinAmount != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "amount", Operator: option.GTE, Value: *filter.MinAmount}))
	}
	if filter.MaxAmount != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "amount", Operator: option.LTE, Value: *filter.MaxAmount}))
	}
	return opts
}

func deref(items []*chargedomain.Charge) []chargedomain.Charge {
	out := make([]chargedomain.Charge, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}
