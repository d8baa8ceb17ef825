package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type settleRequest struct {
	PayoutMethodID string `json:"payout_method_id"`
}

type settleSpecificRequest struct {
	ChargeIDs      []snowflake.ID `json:"charge_ids"`
	PayoutMethodID string         `json:"payout_method_id"`
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}

func (s *Server) SettleOwner(c *gin.Context) {
	var req settleRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.chargeSvc.SettleAllForOwner(c.Request.Context(), ownerIDFromContext(c), req.PayoutMethodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newSettlementResponse(result)})
}

func (s *Server) SettleSpecific(c *gin.Context) {
	var req settleSpecificRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.chargeSvc.SettleSpecific(c.Request.Context(), req.ChargeIDs, req.PayoutMethodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newSettlementResponse(result)})
}

func (s *Server) SettleAllPending(c *gin.Context) {
	var req settleRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.chargeSvc.SettleAllPending(c.Request.Context(), req.PayoutMethodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newSettlementResponse(result)})
}
