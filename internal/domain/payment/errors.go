package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrNoQuoteToCharge  = errors.New("booking has no sent quote to charge")
	ErrPaymentFinalized = errors.New("payment already reached a final state")
	ErrBadWebhook       = errors.New("webhook verification failed")
)
