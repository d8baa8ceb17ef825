package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	settlementSourceOwner    = "owner"
	settlementSourceSpecific = "specific"
	settlementSourceSweep    = "sweep"
)

// selection is what a settlement call found eligible inside its transaction.
type selection struct {
	eligible  []chargedomain.Charge
	skipped   []chargedomain.SkippedCharge
	requested int
}

type selectFunc func(ctx context.Context, repo chargedomain.Repository) (selection, error)

func (s *Service) SettleAllForOwner(ctx context.Context, ownerID snowflake.ID, payoutMethodID string) (chargedomain.SettlementResult, error) {
	if ownerID == 0 {
		return chargedomain.SettlementResult{}, chargedomain.ErrInvalidOwner
	}

	payoutMethodID = strings.TrimSpace(payoutMethodID)
	if payoutMethodID == "" {
		if resolved := s.resolvePayoutMethod(ctx, ownerID); resolved != nil {
			payoutMethodID = *resolved
		} else {
			payoutMethodID = s.defaultPayoutMethod()
		}
	}

	return s.settle(ctx, settlementSourceOwner, payoutMethodID, func(ctx context.Context, repo chargedomain.Repository) (selection, error) {
		items, err := repo.ListPending(ctx, &ownerID)
		if err != nil {
			return selection{}, err
		}
		return selection{eligible: items, requested: len(items)}, nil
	})
}

func (s *Service) SettleSpecific(ctx context.Context, chargeIDs []snowflake.ID, payoutMethodID string) (chargedomain.SettlementResult, error) {
	ids, err := uniqueIDs(chargeIDs)
	if err != nil {
		return chargedomain.SettlementResult{}, err
	}

	payoutMethodID = strings.TrimSpace(payoutMethodID)
	if payoutMethodID == "" {
		payoutMethodID = s.defaultPayoutMethod()
	}

	return s.settle(ctx, settlementSourceSpecific, payoutMethodID, func(ctx context.Context, repo chargedomain.Repository) (selection, error) {
		found, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return selection{}, err
		}
		byID := make(map[snowflake.ID]chargedomain.Charge, len(found))
		for _, c := range found {
			byID[c.ID] = c
		}

		sel := selection{requested: len(ids)}
		for _, id := range ids {
			c, ok := byID[id]
			switch {
			case !ok:
				s.log.Warn("charge not found, skipping", zap.String("charge_id", id.String()))
				sel.skipped = append(sel.skipped, chargedomain.SkippedCharge{ID: id, Reason: chargedomain.SkipReasonNotFound})
			case c.Status != chargedomain.ChargeStatusPending:
				s.log.Warn("charge not pending, skipping",
					zap.String("charge_id", id.String()),
					zap.String("status", string(c.Status)),
				)
				sel.skipped = append(sel.skipped, chargedomain.SkippedCharge{ID: id, Reason: chargedomain.SkipReasonNotPending})
			default:
				sel.eligible = append(sel.eligible, c)
			}
		}
		return sel, nil
	})
}

func (s *Service) SettleAllPending(ctx context.Context, payoutMethodID string) (chargedomain.SettlementResult, error) {
	payoutMethodID = strings.TrimSpace(payoutMethodID)
	if payoutMethodID == "" {
		payoutMethodID = s.defaultPayoutMethod()
	}

	return s.settle(ctx, settlementSourceSweep, payoutMethodID, func(ctx context.Context, repo chargedomain.Repository) (selection, error) {
		items, err := repo.ListPending(ctx, nil)
		if err != nil {
			return selection{}, err
		}
		return selection{eligible: items, requested: len(items)}, nil
	})
}

// settle marks the selected charges PAID in one transaction. If the guarded
// UPDATE touches fewer rows than were selected, another settlement got there
// first and the whole batch is rolled back.
func (s *Service) settle(ctx context.Context, source, payoutMethodID string, selectEligible selectFunc) (chargedomain.SettlementResult, error) {
	paidAt := s.now()
	result := chargedomain.SettlementResult{
		TotalAmount:    decimal.Zero,
		PayoutMethodID: payoutMethodID,
		PaidAt:         paidAt,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sel, err := selectEligible(ctx, repo)
		if err != nil {
			return err
		}
		result.Requested = sel.requested
		result.Skipped = sel.skipped
		if len(sel.eligible) == 0 {
			return nil
		}

		ids := make([]snowflake.ID, 0, len(sel.eligible))
		owners := make(map[snowflake.ID]struct{})
		total := decimal.Zero
		for _, c := range sel.eligible {
			ids = append(ids, c.ID)
			owners[c.OwnerID] = struct{}{}
			total = total.Add(c.Amount)
		}

		ref := ulid.MustNew(ulid.Timestamp(paidAt), ulid.DefaultEntropy()).String()
		affected, err := repo.MarkPaid(ctx, ids, chargedomain.MarkPaidParams{
			PayoutMethodID: payoutMethodID,
			PaidAt:         paidAt,
			SettlementRef:  ref,
		})
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			s.log.Warn("settlement raced a concurrent run, rolling back",
				zap.String("source", source),
				zap.Int("selected", len(ids)),
				zap.Int64("affected", affected),
			)
			return chargedomain.ErrConcurrentSettlement
		}

		result.Settled = len(ids)
		result.TotalAmount = total.Round(2)
		result.SettlementRef = ref
		result.Owners = len(owners)
		return nil
	})
	if err != nil {
		if !errors.Is(err, chargedomain.ErrConcurrentSettlement) {
			s.log.Error("settlement failed", zap.String("source", source), zap.Error(err))
		}
		return chargedomain.SettlementResult{}, err
	}

	s.log.Info("settlement completed",
		zap.String("source", source),
		zap.Int("requested", result.Requested),
		zap.Int("settled", result.Settled),
		zap.Int("skipped", len(result.Skipped)),
		zap.String("total_amount", result.TotalAmount.StringFixed(2)),
		zap.String("payout_method_id", payoutMethodID),
		zap.String("settlement_ref", result.SettlementRef),
	)
	s.obsMetrics.RecordChargesSettled(ctx, source, result.Settled, result.TotalAmount.InexactFloat64())
	return result, nil
}

func uniqueIDs(ids []snowflake.ID) ([]snowflake.ID, error) {
	if len(ids) == 0 {
		return nil, chargedomain.ErrInvalidChargeIDs
	}
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, chargedomain.ErrInvalidChargeIDs
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
