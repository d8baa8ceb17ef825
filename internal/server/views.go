package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/pkg/db/pagination"
)

// Amounts are rendered as fixed two-decimal strings.

type chargeResponse struct {
	ID                      snowflake.ID   `json:"id"`
	OwnerID                 snowflake.ID   `json:"owner_id"`
	ChargeType              string         `json:"charge_type"`
	Amount                  string         `json:"amount"`
	ContentType             string         `json:"content_type,omitempty"`
	ContentID               string         `json:"content_id,omitempty"`
	ContentTitle            string         `json:"content_title"`
	CumulativePlaysAtCharge *int64         `json:"cumulative_plays_at_charge,omitempty"`
	Status                  string         `json:"status"`
	PayoutMethodID          *string        `json:"payout_method_id"`
	PayoutMethodName        string         `json:"payout_method_name,omitempty"`
	SaleReference           *string        `json:"sale_reference,omitempty"`
	SettlementRef           *string        `json:"settlement_ref,omitempty"`
	Description             string         `json:"description"`
	Metadata                map[string]any `json:"metadata,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`
	PaidAt                  *time.Time     `json:"paid_at"`
}

func newChargeResponse(c chargedomain.Charge, contentTitle, payoutMethodName string) chargeResponse {
	resp := chargeResponse{
		ID:                      c.ID,
		OwnerID:                 c.OwnerID,
		ChargeType:              string(c.ChargeType),
		Amount:                  c.Amount.StringFixed(2),
		ContentTitle:            contentTitle,
		CumulativePlaysAtCharge: c.CumulativePlaysAtCharge,
		Status:                  string(c.Status),
		PayoutMethodID:          c.PayoutMethodID,
		PayoutMethodName:        payoutMethodName,
		SaleReference:           c.SaleReference,
		SettlementRef:           c.SettlementRef,
		Description:             c.Description,
		Metadata:                c.Metadata,
		CreatedAt:               c.CreatedAt,
		PaidAt:                  c.PaidAt,
	}
	if contentType, id, ok := c.Content(); ok {
		resp.ContentType = string(contentType)
		resp.ContentID = id.String()
	}
	return resp
}

func newChargeViewResponse(v chargedomain.ChargeView) chargeResponse {
	return newChargeResponse(v.Charge, v.ContentTitle, v.PayoutMethodName)
}

type listChargesResponse struct {
	Data          []chargeResponse    `json:"data"`
	PageInfo      pagination.PageInfo `json:"page_info"`
	TotalAmount   string              `json:"total_amount"`
	PendingAmount string              `json:"pending_amount"`
	PaidAmount    string              `json:"paid_amount"`
}

type accrualResponse struct {
	Outcome              string          `json:"outcome"`
	Milestone            int64           `json:"milestone"`
	LastBilledMilestone  int64           `json:"last_billed_milestone"`
	PlaysToNextMilestone int64           `json:"plays_to_next_milestone"`
	Charge               *chargeResponse `json:"charge,omitempty"`
}

type skippedChargeResponse struct {
	ID     snowflake.ID `json:"id"`
	Reason string       `json:"reason"`
}

type settlementResponse struct {
	Requested      int                     `json:"requested"`
	Settled        int                     `json:"settled"`
	Skipped        []skippedChargeResponse `json:"skipped"`
	TotalAmount    string                  `json:"total_amount"`
	PayoutMethodID string                  `json:"payout_method_id"`
	PaidAt         time.Time               `json:"paid_at"`
	SettlementRef  string                  `json:"settlement_ref,omitempty"`
	Owners         int                     `json:"owners"`
}

func newSettlementResponse(r chargedomain.SettlementResult) settlementResponse {
	skipped := make([]skippedChargeResponse, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped = append(skipped, skippedChargeResponse{ID: s.ID, Reason: string(s.Reason)})
	}
	return settlementResponse{
		Requested:      r.Requested,
		Settled:        r.Settled,
		Skipped:        skipped,
		TotalAmount:    r.TotalAmount.StringFixed(2),
		PayoutMethodID: r.PayoutMethodID,
		PaidAt:         r.PaidAt,
		SettlementRef:  r.SettlementRef,
		Owners:         r.Owners,
	}
}

type monthlySummaryResponse struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	TotalAmount   string `json:"total_amount"`
	PendingAmount string `json:"pending_amount"`
	PaidAmount    string `json:"paid_amount"`
	ChargeCount   int64  `json:"charge_count"`
}
