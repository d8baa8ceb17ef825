package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
)

type saleEventRequest struct {
	OwnerID       snowflake.ID    `json:"owner_id"`
	ContentType   string          `json:"content_type"`
	ContentID     snowflake.ID    `json:"content_id"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	SaleReference string          `json:"sale_reference"`
}

type playCountEventRequest struct {
	OwnerID    snowflake.ID `json:"owner_id"`
	TrackID    snowflake.ID `json:"track_id"`
	TotalPlays int64        `json:"total_plays"`
}

func (s *Server) RecordSale(c *gin.Context) {
	var req saleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	contentType, err := chargedomain.ParseContentType(req.ContentType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	setChargeType(c, string(chargedomain.ChargeTypePurchase))

	charge, err := s.chargeSvc.RecordSale(c.Request.Context(), chargedomain.SaleEvent{
		OwnerID:       req.OwnerID,
		ContentType:   contentType,
		ContentID:     req.ContentID,
		SalePrice:     req.SalePrice,
		SaleReference: strings.TrimSpace(req.SaleReference),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": newChargeResponse(*charge, "", "")})
}

func (s *Server) RecordPlayCount(c *gin.Context) {
	var req playCountEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	setChargeType(c, string(chargedomain.ChargeTypePlayThreshold))

	result, err := s.chargeSvc.RecordPlayCount(c.Request.Context(), chargedomain.PlayCountEvent{
		OwnerID:    req.OwnerID,
		TrackID:    req.TrackID,
		TotalPlays: req.TotalPlays,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := accrualResponse{
		Outcome:              string(result.Outcome),
		Milestone:            result.Milestone,
		LastBilledMilestone:  result.LastBilledMilestone,
		PlaysToNextMilestone: result.PlaysToNextMilestone,
	}
	status := http.StatusOK
	if result.Charge != nil {
		charge := newChargeResponse(*result.Charge, "", "")
		resp.Charge = &charge
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": resp})
}
