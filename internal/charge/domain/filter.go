package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ChargeFilter holds one optional predicate per dimension. Nil fields are not applied.
type ChargeFilter struct {
	OwnerID     *snowflake.ID
	Status      *ChargeStatus
	ChargeType  *ChargeType
	ContentType *ContentType

	From *time.Time
	To   *time.Time

	// Month and Year replace From/To when both are present and in range.
	Month *int
	Year  *int

	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// MonthRange returns the inclusive UTC bounds of a calendar month.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

func ValidMonth(month int) bool { return month >= 1 && month <= 12 }

func ValidYear(year int) bool { return year >= 1 && year <= 9999 }

// Resolve folds Month/Year into From/To. Out-of-range month/year values are
// dropped and the explicit bounds, if any, are kept.
func (f ChargeFilter) Resolve() ChargeFilter {
	out := f
	out.Month = nil
	out.Year = nil
	if f.Month != nil && f.Year != nil && ValidMonth(*f.Month) && ValidYear(*f.Year) {
		from, to := MonthRange(*f.Year, *f.Month)
		out.From = &from
		out.To = &to
	}
	if out.From != nil {
		from := out.From.UTC()
		out.From = &from
	}
	if out.To != nil {
		to := out.To.UTC()
		out.To = &to
	}
	return out
}

// Validate checks enum values and range ordering on a resolved filter.
func (f ChargeFilter) Validate() error {
	if f.OwnerID != nil && *f.OwnerID == 0 {
		return ErrInvalidOwner
	}
	if f.Status != nil && !f.Status.Valid() {
		return ErrInvalidStatus
	}
	if f.ChargeType != nil && !f.ChargeType.Valid() {
		return ErrInvalidChargeType
	}
	if f.ContentType != nil && !f.ContentType.Valid() {
		return ErrInvalidContentType
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ErrInvalidDateRange
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return ErrInvalidAmountRange
	}
	return nil
}
