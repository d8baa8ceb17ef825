package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
)

type monthKey struct {
	year  int
	month int
}

// MonthlySummary groups an owner's charges by UTC calendar month.
func (s *Service) MonthlySummary(ctx context.Context, req chargedomain.MonthlySummaryRequest) ([]chargedomain.MonthlySummary, error) {
	if req.OwnerID == 0 {
		return nil, chargedomain.ErrInvalidOwner
	}

	ownerID := req.OwnerID
	filter := chargedomain.ChargeFilter{OwnerID: &ownerID}
	if req.Year != nil {
		if !chargedomain.ValidYear(*req.Year) {
			return nil, chargedomain.ErrInvalidYear
		}
		from := time.Date(*req.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0).Add(-time.Second)
		filter.From = &from
		filter.To = &to
	}

	charges, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	buckets := make(map[monthKey]*chargedomain.MonthlySummary)
	for _, c := range charges {
		created := c.CreatedAt.UTC()
		key := monthKey{year: created.Year(), month: int(created.Month())}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &chargedomain.MonthlySummary{
				Year:          key.year,
				Month:         key.month,
				TotalAmount:   decimal.Zero,
				PendingAmount: decimal.Zero,
				PaidAmount:    decimal.Zero,
			}
			buckets[key] = bucket
		}
		bucket.ChargeCount++
		switch c.Status {
		case chargedomain.ChargeStatusPending:
			bucket.PendingAmount = bucket.PendingAmount.Add(c.Amount)
		case chargedomain.ChargeStatusPaid:
			bucket.PaidAmount = bucket.PaidAmount.Add(c.Amount)
		}
	}

	out := make([]chargedomain.MonthlySummary, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.PendingAmount = bucket.PendingAmount.Round(2)
		bucket.PaidAmount = bucket.PaidAmount.Round(2)
		bucket.TotalAmount = bucket.PendingAmount.Add(bucket.PaidAmount)
		out = append(out, *bucket)
	}

	ascending := strings.EqualFold(strings.TrimSpace(req.Order), "asc")
	sort.Slice(out, func(i, j int) bool {
		a := out[i].Year*100 + out[i].Month
		b := out[j].Year*100 + out[j].Month
		if ascending {
			return a < b
		}
		return a > b
	})
	return out, nil
}
