package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
)

// BuildStatement collects one owner's charges for a calendar month.
func (s *Service) BuildStatement(ctx context.Context, ownerID snowflake.ID, year, month int) (*chargedomain.Statement, error) {
	if ownerID == 0 {
		return nil, chargedomain.ErrInvalidOwner
	}
	if !chargedomain.ValidMonth(month) {
		return nil, chargedomain.ErrInvalidMonth
	}
	if !chargedomain.ValidYear(year) {
		return nil, chargedomain.ErrInvalidYear
	}

	from, to := chargedomain.MonthRange(year, month)
	filter := chargedomain.ChargeFilter{OwnerID: &ownerID, From: &from, To: &to}

	charges, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Totals(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &chargedomain.Statement{
		OwnerID:       ownerID,
		Year:          year,
		Month:         month,
		PeriodStart:   from,
		PeriodEnd:     to,
		Charges:       s.newEnricher().enrich(ctx, charges),
		TotalAmount:   totals.Total,
		PendingAmount: totals.Pending,
		PaidAmount:    totals.Paid,
		GeneratedAt:   s.now(),
	}, nil
}
