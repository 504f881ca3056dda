package quote

import "errors"

var (
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrEmptyDraft       = errors.New("draft has no items")
	ErrItemNotFound     = errors.New("draft item not found")
	ErrValidationFailed = errors.New("draft failed validation")
	ErrItemNotPersisted = errors.New("item is not linked to a saved catalog service")
	ErrNotifyInFlight   = errors.New("vendor notification already in progress for this item")
	ErrBookingClosed    = errors.New("booking can no longer be quoted")
	ErrInvalidItemType  = errors.New("invalid item type")
)
