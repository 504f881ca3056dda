package payment

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripline/tripline-api/internal/domain/booking"
	"github.com/tripline/tripline-api/internal/domain/quote"
	"github.com/tripline/tripline-api/internal/pkg/stripe"
)

// StripeGateway is the slice of the Stripe client the service needs
type StripeGateway interface {
	CreatePaymentIntent(ctx context.Context, req stripe.CreateIntentRequest) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	VerifyWebhook(payload []byte, sigHeader string) error
}

// QuoteReader exposes the latest sent quote for a booking
type QuoteReader interface {
	LatestQuote(ctx context.Context, bookingID uuid.UUID) (*quote.Quote, []quote.QuoteItem, error)
}

// BookingUpdater moves a booking through its lifecycle
type BookingUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, reason string) error
}

// EventPublisher pushes back-office events to connected operators
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{})
}

// Service handles payment business logic
type Service struct {
	repo     Repository
	gateway  StripeGateway
	quotes   QuoteReader
	bookings BookingUpdater
	events   EventPublisher
}

// NewService creates payment service
func NewService(repo Repository, gateway StripeGateway, quotes QuoteReader, bookings BookingUpdater, events EventPublisher) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		quotes:   quotes,
		bookings: bookings,
		events:   events,
	}
}

// CreateIntent starts a Stripe charge for the booking's latest sent
// quote and persists the payment row. The returned client secret
// completes the card flow in the browser.
func (s *Service) CreateIntent(ctx context.Context, bookingID uuid.UUID, receiptEmail string) (*Payment, string, error) {
	q, _, err := s.quotes.LatestQuote(ctx, bookingID)
	if err != nil {
		if err == quote.ErrQuoteNotFound {
			return nil, "", ErrNoQuoteToCharge
		}
		return nil, "", err
	}

	amountCents := int64(math.Round(q.Total * 100))

	intent, err := s.gateway.CreatePaymentIntent(ctx, stripe.CreateIntentRequest{
		AmountCents:  amountCents,
		Currency:     "usd",
		Description:  "Tripline package for booking " + bookingID.String(),
		ReceiptEmail: receiptEmail,
		Metadata: map[string]string{
			"booking_id": bookingID.String(),
			"quote_id":   q.ID.String(),
		},
	})
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	p := &Payment{
		ID:          uuid.New(),
		BookingID:   bookingID,
		QuoteID:     q.ID,
		Provider:    "stripe",
		ExternalID:  intent.ID,
		AmountCents: amountCents,
		Currency:    intent.Currency,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, "", err
	}

	log.Info().
		Str("booking_id", bookingID.String()).
		Str("payment_id", p.ID.String()).
		Str("intent_id", intent.ID).
		Int64("amount_cents", amountCents).
		Msg("Payment intent created")

	return p, intent.ClientSecret, nil
}

// Confirm re-fetches the intent from Stripe and syncs local status.
// Used when the webhook is delayed and the front-end polls.
func (s *Service) Confirm(ctx context.Context, paymentID uuid.UUID) (*Payment, error) {
	p, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.IsFinal() {
		return p, nil
	}

	intent, err := s.gateway.GetPaymentIntent(ctx, p.ExternalID)
	if err != nil {
		return nil, err
	}

	return s.applyIntentStatus(ctx, p, intent.Status, "")
}

// GetByID fetches one payment
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ListByBooking returns a booking's payment attempts
func (s *Service) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

// HandleWebhook verifies and applies an async status notification
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := s.gateway.VerifyWebhook(payload, sigHeader); err != nil {
		log.Warn().Err(err).Msg("Rejected stripe webhook")
		return ErrBadWebhook
	}

	event, err := stripe.ParseWebhook(payload)
	if err != nil {
		return ErrBadWebhook
	}

	switch event.Type {
	case stripe.EventPaymentSucceeded, stripe.EventPaymentFailed, stripe.EventPaymentCanceled:
	default:
		// Not a payment event; acknowledge and move on.
		return nil
	}

	intent, err := stripe.IntentFromEvent(event)
	if err != nil {
		return ErrBadWebhook
	}

	p, err := s.repo.GetByExternalID(ctx, intent.ID)
	if err != nil {
		return err
	}
	if p == nil {
		log.Warn().Str("intent_id", intent.ID).Msg("Webhook for unknown payment intent")
		return nil
	}

	failReason := ""
	if event.Type == stripe.EventPaymentFailed {
		failReason = "card payment failed"
	}

	_, err = s.applyIntentStatus(ctx, p, intent.Status, failReason)
	return err
}

// applyIntentStatus maps a Stripe intent status onto the payment row
// and, on success, moves the booking to accepted.
func (s *Service) applyIntentStatus(ctx context.Context, p *Payment, intentStatus, failReason string) (*Payment, error) {
	var status Status
	switch intentStatus {
	case "succeeded":
		status = StatusSucceeded
	case "processing":
		status = StatusProcessing
	case "canceled":
		status = StatusCancelled
	case "requires_payment_method":
		if failReason != "" {
			status = StatusFailed
		} else {
			status = StatusPending
		}
	default:
		status = StatusPending
	}

	if status == p.Status {
		return p, nil
	}

	if err := s.repo.UpdateStatus(ctx, p.ID, status, failReason); err != nil {
		return nil, err
	}
	p.Status = status

	if status == StatusSucceeded {
		if err := s.bookings.UpdateStatus(ctx, p.BookingID, booking.StatusAccepted, "payment received"); err != nil {
			log.Error().Err(err).
				Str("booking_id", p.BookingID.String()).
				Str("payment_id", p.ID.String()).
				Msg("Payment succeeded but booking status update failed")
		}
		if s.events != nil {
			s.events.Publish(ctx, "payment_succeeded", map[string]interface{}{
				"booking_id": p.BookingID,
				"payment_id": p.ID,
				"amount":     p.AmountCents,
			})
		}
		log.Info().
			Str("booking_id", p.BookingID.String()).
			Str("payment_id", p.ID.String()).
			Msg("Payment succeeded")
	}

	return p, nil
}
