package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var hundred = decimal.NewFromInt(100)

// RecordSale creates the owner's share of a completed sale as a pending charge.
func (s *Service) RecordSale(ctx context.Context, event chargedomain.SaleEvent) (*chargedomain.Charge, error) {
	if event.OwnerID == 0 {
		return nil, chargedomain.ErrInvalidOwner
	}
	if !event.ContentType.Valid() {
		return nil, chargedomain.ErrInvalidContentType
	}
	if event.ContentID == 0 {
		return nil, chargedomain.ErrInvalidContentID
	}
	if event.SalePrice.IsNegative() {
		return nil, chargedomain.ErrInvalidAmount
	}

	percentage := s.rates.Get().OwnerPercentage
	share := OwnerShare(event.SalePrice, percentage)

	charge := &chargedomain.Charge{
		ID:             s.genID.Generate(),
		OwnerID:        event.OwnerID,
		ChargeType:     chargedomain.ChargeTypePurchase,
		Amount:         share,
		Status:         chargedomain.ChargeStatusPending,
		PayoutMethodID: s.resolvePayoutMethod(ctx, event.OwnerID),
		Description: fmt.Sprintf("Purchase of %s %s: %s%% of %s",
			strings.ToLower(string(event.ContentType)),
			event.ContentID,
			percentage.Mul(hundred).String(),
			event.SalePrice.StringFixed(2),
		),
		Metadata: datatypes.JSONMap{
			"sale_price":       event.SalePrice.StringFixed(2),
			"owner_percentage": percentage.String(),
		},
		CreatedAt: s.now(),
	}
	if ref := strings.TrimSpace(event.SaleReference); ref != "" {
		charge.SaleReference = &ref
	}
	charge.SetContent(event.ContentType, event.ContentID)

	if err := charge.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, charge); err != nil {
		s.log.Error("failed to persist purchase charge",
			zap.String("owner_id", event.OwnerID.String()),
			zap.String("sale_reference", event.SaleReference),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("purchase charge created",
		zap.String("charge_id", charge.ID.String()),
		zap.String("owner_id", charge.OwnerID.String()),
		zap.String("amount", charge.Amount.StringFixed(2)),
	)
	s.obsMetrics.RecordChargeCreated(ctx, string(chargedomain.ChargeTypePurchase))
	return charge, nil
}

// OwnerShare is price * percentage rounded half away from zero to cents.
func OwnerShare(price, percentage decimal.Decimal) decimal.Decimal {
	return price.Mul(percentage).Round(2)
}
