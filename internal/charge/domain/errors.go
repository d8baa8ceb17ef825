package domain

import "errors"

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidContentType   = errors.New("invalid_content_type")
	ErrInvalidContentID     = errors.New("invalid_content_id")
	ErrInvalidChargeType    = errors.New("invalid_charge_type")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidPlays         = errors.New("invalid_plays")
	ErrInvalidChargeIDs     = errors.New("invalid_charge_ids")
	ErrInvalidMonth         = errors.New("invalid_month")
	ErrInvalidYear          = errors.New("invalid_year")
	ErrInvalidAmountRange   = errors.New("invalid_amount_range")
	ErrInvalidDateRange     = errors.New("invalid_date_range")
	ErrNotFound             = errors.New("not_found")
	ErrConcurrentSettlement = errors.New("concurrent_settlement")
)

// IsValidationError reports whether err is caused by caller input.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidOwner),
		errors.Is(err, ErrInvalidContentType),
		errors.Is(err, ErrInvalidContentID),
		errors.Is(err, ErrInvalidChargeType),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidPlays),
		errors.Is(err, ErrInvalidChargeIDs),
		errors.Is(err, ErrInvalidMonth),
		errors.Is(err, ErrInvalidYear),
		errors.Is(err, ErrInvalidAmountRange),
		errors.Is(err, ErrInvalidDateRange):
		return true
	default:
		return false
	}
}
