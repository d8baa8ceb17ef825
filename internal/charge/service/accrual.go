package service

import (
	"context"
	"fmt"

	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RecordPlayCount bills the highest play milestone reached by a track, at most
// once per (owner, track, milestone). It only returns an error for invalid input.
func (s *Service) RecordPlayCount(ctx context.Context, event chargedomain.PlayCountEvent) (chargedomain.AccrualResult, error) {
	if event.OwnerID == 0 {
		return chargedomain.AccrualResult{}, chargedomain.ErrInvalidOwner
	}
	if event.TrackID == 0 {
		return chargedomain.AccrualResult{}, chargedomain.ErrInvalidContentID
	}
	if event.TotalPlays < 0 {
		return chargedomain.AccrualResult{}, chargedomain.ErrInvalidPlays
	}

	rates := s.rates.Get()
	log := s.log.With(
		zap.String("owner_id", event.OwnerID.String()),
		zap.String("track_id", event.TrackID.String()),
		zap.Int64("total_plays", event.TotalPlays),
	)

	if event.TotalPlays < rates.UnitPlays {
		return s.accrualDone(ctx, chargedomain.AccrualResult{
			Outcome:              chargedomain.AccrualOutcomeBelowThreshold,
			PlaysToNextMilestone: rates.UnitPlays - event.TotalPlays,
		}), nil
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, event.OwnerID, event.TrackID)
		if err != nil {
			log.Warn("content lock unavailable, relying on dedupe key", zap.Error(err))
		}
		if release != nil {
			defer release()
		}
	}

	last, err := s.repo.LastBilledMilestone(ctx, event.OwnerID, event.TrackID)
	if err != nil {
		log.Warn("last billed milestone lookup failed, assuming none", zap.Error(err))
		last = 0
	}

	milestone := (event.TotalPlays / rates.UnitPlays) * rates.UnitPlays
	result := chargedomain.AccrualResult{
		Milestone:           milestone,
		LastBilledMilestone: last,
	}

	if milestone <= last {
		result.Outcome = chargedomain.AccrualOutcomeAlreadyBilled
		result.PlaysToNextMilestone = last + rates.UnitPlays - event.TotalPlays
		log.Debug("milestone already billed",
			zap.Int64("milestone", milestone),
			zap.Int64("last_billed_milestone", last),
			zap.Int64("plays_to_next_milestone", result.PlaysToNextMilestone),
		)
		return s.accrualDone(ctx, result), nil
	}

	dedupeKey := chargedomain.PlayThresholdDedupeKey(event.OwnerID, event.TrackID, milestone)
	charge := &chargedomain.Charge{
		ID:                      s.genID.Generate(),
		OwnerID:                 event.OwnerID,
		ChargeType:              chargedomain.ChargeTypePlayThreshold,
		Amount:                  rates.UnitPayout.Round(2),
		CumulativePlaysAtCharge: &milestone,
		Status:                  chargedomain.ChargeStatusPending,
		PayoutMethodID:          s.resolvePayoutMethod(ctx, event.OwnerID),
		Description:             fmt.Sprintf("Play milestone %d reached for track %s", milestone, event.TrackID),
		DedupeKey:               &dedupeKey,
		Metadata: datatypes.JSONMap{
			"total_plays": event.TotalPlays,
			"unit_plays":  rates.UnitPlays,
			"unit_payout": rates.UnitPayout.StringFixed(2),
		},
		CreatedAt: s.now(),
	}
	charge.SetContent(chargedomain.ContentTypeTrack, event.TrackID)
	result.PlaysToNextMilestone = milestone + rates.UnitPlays - event.TotalPlays

	if err := charge.Validate(); err != nil {
		log.Error("invalid play threshold charge", zap.Error(err))
		result.Outcome = chargedomain.AccrualOutcomeFailed
		return s.accrualDone(ctx, result), nil
	}

	inserted, err := s.repo.CreateIfAbsent(ctx, charge)
	if err != nil {
		log.Error("failed to persist play threshold charge",
			zap.Int64("milestone", milestone),
			zap.Error(err),
		)
		result.Outcome = chargedomain.AccrualOutcomeFailed
		return s.accrualDone(ctx, result), nil
	}
	if !inserted {
		log.Debug("milestone billed by a concurrent evaluator", zap.Int64("milestone", milestone))
		result.Outcome = chargedomain.AccrualOutcomeAlreadyBilled
		return s.accrualDone(ctx, result), nil
	}

	log.Info("play threshold charge created",
		zap.String("charge_id", charge.ID.String()),
		zap.Int64("milestone", milestone),
		zap.Int64("last_billed_milestone", last),
		zap.String("amount", charge.Amount.StringFixed(2)),
	)
	s.obsMetrics.RecordChargeCreated(ctx, string(chargedomain.ChargeTypePlayThreshold))

	result.Outcome = chargedomain.AccrualOutcomeCharged
	result.Charge = charge
	return s.accrualDone(ctx, result), nil
}

func (s *Service) accrualDone(ctx context.Context, result chargedomain.AccrualResult) chargedomain.AccrualResult {
	s.obsMetrics.RecordAccrualOutcome(ctx, string(result.Outcome))
	return result
}
