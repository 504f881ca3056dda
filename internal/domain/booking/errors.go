package booking

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingClosed    = errors.New("booking is already closed")
	ErrInvalidStatus    = errors.New("invalid booking status transition")
	ErrNoRequestedItems = errors.New("booking has no requested items")
)
