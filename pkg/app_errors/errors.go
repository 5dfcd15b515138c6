package apperrors

import "errors"

var (
	ErrGroupNotFound       = errors.New("ticket group not found")
	ErrAreaNotFound        = errors.New("ticket area not found")
	ErrTierNotFound        = errors.New("pricing tier not found")
	ErrDateNotFound        = errors.New("session date not found")
	ErrSlotNotFound        = errors.New("time slot not found")
	ErrInvalidDate         = errors.New("invalid session date")
	ErrUnknownGroupKey     = errors.New("unknown ticket group key")
	ErrInvalidCurrency     = errors.New("invalid currency")
	ErrListingNotFound     = errors.New("listing not found")
	ErrDraftNotFound       = errors.New("draft not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
