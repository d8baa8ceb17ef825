package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

func parseOptionalDecimal(value string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 0, time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}

// parseChargeFilter reads the charge filter query parameters. Malformed
// values are rejected; well-formed but out-of-range month/year values are
// passed through and ignored by the service.
func parseChargeFilter(c *gin.Context) (chargedomain.ChargeFilter, error) {
	var filter chargedomain.ChargeFilter

	ownerID, err := parseOptionalSnowflakeID(c.Query("owner_id"))
	if err != nil {
		return filter, newValidationError("owner_id", "invalid_owner", "invalid owner id")
	}
	filter.OwnerID = ownerID

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := chargedomain.ParseChargeStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("charge_type")); raw != "" {
		chargeType, err := chargedomain.ParseChargeType(raw)
		if err != nil {
			return filter, err
		}
		filter.ChargeType = &chargeType
	}
	if raw := strings.TrimSpace(c.Query("content_type")); raw != "" {
		contentType, err := chargedomain.ParseContentType(raw)
		if err != nil {
			return filter, err
		}
		filter.ContentType = &contentType
	}

	if filter.From, err = parseOptionalTime(c.Query("from"), false); err != nil {
		return filter, newValidationError("from", "invalid_time", "from must be RFC3339 or YYYY-MM-DD")
	}
	if filter.To, err = parseOptionalTime(c.Query("to"), true); err != nil {
		return filter, newValidationError("to", "invalid_time", "to must be RFC3339 or YYYY-MM-DD")
	}
	if filter.Month, err = parseOptionalInt(c.Query("month")); err != nil {
		return filter, chargedomain.ErrInvalidMonth
	}
	if filter.Year, err = parseOptionalInt(c.Query("year")); err != nil {
		return filter, chargedomain.ErrInvalidYear
	}
	if filter.MinAmount, err = parseOptionalDecimal(c.Query("min_amount")); err != nil {
		return filter, newValidationError("min_amount", "invalid_amount", "min_amount must be a decimal")
	}
	if filter.MaxAmount, err = parseOptionalDecimal(c.Query("max_amount")); err != nil {
		return filter, newValidationError("max_amount", "invalid_amount", "max_amount must be a decimal")
	}

	return filter, nil
}

func parsePaging(c *gin.Context) (int, int, error) {
	page, err := parseOptionalInt(c.Query("page"))
	if err != nil {
		return 0, 0, newValidationError("page", "invalid_page", "page must be an integer")
	}
	pageSize, err := parseOptionalInt(c.Query("page_size"))
	if err != nil {
		return 0, 0, newValidationError("page_size", "invalid_page_size", "page_size must be an integer")
	}
	var p, ps int
	if page != nil {
		p = *page
	}
	if pageSize != nil {
		ps = *pageSize
	}
	return p, ps, nil
}
