package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/royalty/internal/scheduler/guard"
	obsmetrics "github.com/smallbiznis/royalty/internal/observability/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MonthlySettlementJob pays out every pending charge once per calendar month,
// on or after the configured settlement day.
func (s *Scheduler) MonthlySettlementJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobMonthlySettlement)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}
	schedMetrics := obsmetrics.Scheduler()
	now := s.clock.Now().UTC()
	period := guard.SettlementPeriod(now)

	if err := guard.EnsureSettlementDue(now, s.rates.Get().SettlementDayOfMonth); err != nil {
		if errors.Is(err, guard.ErrSettlementNotDue) {
			schedMetrics.IncBatchDeferred(JobMonthlySettlement, obsmetrics.SchedulerBatchDeferredReasonNotDue)
			return nil
		}
		return err
	}

	claim, claimed, err := s.claimPeriod(ctx, period, now)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.settlement.claim.failed", JobMonthlySettlement, err, zap.String("period", period))
		return err
	}
	if !claimed {
		schedMetrics.IncBatchDeferred(JobMonthlySettlement, obsmetrics.SchedulerBatchDeferredReasonAlreadyClaimed)
		s.logger(ctx).Debug("scheduler.settlement.already_claimed", zap.String("period", period))
		return nil
	}

	result, err := s.chargeSvc.SettleAllPending(ctx, "")
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.settlement.failed", JobMonthlySettlement, err, zap.String("period", period))
		s.releaseClaim(claim)
		return err
	}

	run.AddProcessed(result.Settled)
	schedMetrics.AddBatchProcessed(JobMonthlySettlement, "charges", result.Settled)
	if err := s.completeClaim(ctx, claim, result.Settled, result.TotalAmount, result.SettlementRef); err != nil {
		// Charges are already paid; keep the claim so the month is not swept again.
		s.logSchedulerError(ctx, run, "scheduler.settlement.complete.failed", JobMonthlySettlement, err, zap.String("period", period))
		return err
	}

	s.logger(ctx).Info("scheduler.settlement.completed",
		zap.String("period", period),
		zap.Int("settled", result.Settled),
		zap.Int("owners", result.Owners),
		zap.String("total_amount", result.TotalAmount.StringFixed(2)),
		zap.String("settlement_ref", result.SettlementRef),
	)
	return nil
}

func (s *Scheduler) claimPeriod(ctx context.Context, period string, now time.Time) (*SettlementRun, bool, error) {
	claim := &SettlementRun{
		ID:          s.genID.Generate(),
		Period:      period,
		Status:      SettlementRunStatusRunning,
		TotalAmount: decimal.Zero,
		StartedAt:   now,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "period"}}, DoNothing: true}).
		Create(claim)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return claim, res.RowsAffected > 0, nil
}

// releaseClaim runs on a fresh context since the job's may have expired.
func (s *Scheduler) releaseClaim(claim *SettlementRun) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", claim.ID, SettlementRunStatusRunning).
		Delete(&SettlementRun{}).Error
	if err != nil {
		s.log.Error("failed to release settlement claim",
			zap.String("period", claim.Period),
			zap.Error(err),
		)
	}
}

func (s *Scheduler) completeClaim(ctx context.Context, claim *SettlementRun, settled int, total decimal.Decimal, ref string) error {
	finishedAt := s.clock.Now().UTC()
	updates := map[string]any{
		"status":        SettlementRunStatusSucceeded,
		"settled_count": settled,
		"total_amount":  total,
		"finished_at":   finishedAt,
	}
	if ref != "" {
		updates["settlement_ref"] = ref
	}
	return s.db.WithContext(ctx).
		Model(&SettlementRun{}).
		Where("id = ?", claim.ID).
		Updates(updates).Error
}

// LastRun returns the most recent settlement run, or nil.
func (s *Scheduler) LastRun(ctx context.Context) (*SettlementRun, error) {
	var item SettlementRun
	err := s.db.WithContext(ctx).Order("started_at DESC").Limit(1).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
