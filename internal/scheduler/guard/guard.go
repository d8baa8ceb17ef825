package guard

import (
	"errors"
	"time"
)

var (
	ErrSettlementNotDue     = errors.New("settlement_not_due")
	ErrInvalidSettlementDay = errors.New("invalid_settlement_day")
)

// PeriodLayout formats a settlement period as YYYY-MM.
const PeriodLayout = "2006-01"

// EnsureSettlementDue reports whether the monthly sweep may run at now.
func EnsureSettlementDue(now time.Time, dayOfMonth int) error {
	if dayOfMonth < 1 || dayOfMonth > 28 {
		return ErrInvalidSettlementDay
	}
	if now.UTC().Day() < dayOfMonth {
		return ErrSettlementNotDue
	}
	return nil
}

func SettlementPeriod(now time.Time) string {
	return now.UTC().Format(PeriodLayout)
}
