package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
)

func (s *Server) ListCharges(c *gin.Context) {
	filter, err := parseChargeFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	page, pageSize, err := parsePaging(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.chargeSvc.ListCharges(c.Request.Context(), chargedomain.ListRequest{
		Filter:   filter,
		SortBy:   c.Query("sort_by"),
		OrderBy:  c.Query("order_by"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]chargeResponse, 0, len(resp.Charges))
	for _, view := range resp.Charges {
		items = append(items, newChargeViewResponse(view))
	}

	c.JSON(http.StatusOK, listChargesResponse{
		Data:          items,
		PageInfo:      resp.PageInfo,
		TotalAmount:   resp.TotalAmount.StringFixed(2),
		PendingAmount: resp.PendingAmount.StringFixed(2),
		PaidAmount:    resp.PaidAmount.StringFixed(2),
	})
}

func (s *Server) GetCharge(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	view, err := s.chargeSvc.GetCharge(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newChargeViewResponse(*view)})
}

func (s *Server) MonthlySummary(c *gin.Context) {
	year, err := parseOptionalInt(c.Query("year"))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidYear)
		return
	}

	rows, err := s.chargeSvc.MonthlySummary(c.Request.Context(), chargedomain.MonthlySummaryRequest{
		OwnerID: ownerIDFromContext(c),
		Year:    year,
		Order:   strings.ToLower(strings.TrimSpace(c.Query("order"))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]monthlySummaryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, monthlySummaryResponse{
			Year:          row.Year,
			Month:         row.Month,
			TotalAmount:   row.TotalAmount.StringFixed(2),
			PendingAmount: row.PendingAmount.StringFixed(2),
			PaidAmount:    row.PaidAmount.StringFixed(2),
			ChargeCount:   row.ChargeCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetStatement(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Param("year")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidYear)
		return
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.Param("month")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidMonth)
		return
	}

	ownerID := ownerIDFromContext(c)
	stmt, err := s.chargeSvc.BuildStatement(c.Request.Context(), ownerID, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.renderer.Render(c.Request.Context(), stmt)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("royalty-statement-%s-%04d-%02d.pdf", ownerID, year, month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", body)
}
