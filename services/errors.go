package services

import "errors"

// Eligibility and ledger errors surfaced to the web layer as structured reason
// codes. None of these are retried automatically; ErrConcurrencyConflict is the
// only one where a single evaluate+commit retry is safe.
var (
	ErrNotFound            = errors.New("not found")
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	ErrPromotionExpired          = errors.New("promotion expired")
	ErrPromotionUserLimitReached = errors.New("promotion user limit reached")
	ErrVoucherExpired            = errors.New("voucher expired")
	ErrVoucherGlobalLimitReached = errors.New("voucher global limit reached")
	ErrVoucherUserLimitReached   = errors.New("voucher user limit reached")
	ErrMinOrderValueNotMet       = errors.New("minimum order value not met")
	ErrInsufficientStock         = errors.New("insufficient stock")

	ErrAlreadyCheckedInToday = errors.New("already checked in today")
	ErrInsufficientPoints    = errors.New("insufficient points")
	ErrAlreadyConfirmed      = errors.New("reward already confirmed")
)

// ValidationError marks malformed input rejected before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
