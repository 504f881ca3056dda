package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Webhook event types the payment domain reacts to
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// signatureTolerance bounds the accepted age of a signed payload
const signatureTolerance = 5 * time.Minute

// VerifyWebhook checks the Stripe-Signature header against the raw
// payload. The header carries a unix timestamp and one or more v1
// HMAC-SHA256 signatures over "timestamp.payload".
func (c *Client) VerifyWebhook(payload []byte, sigHeader string) error {
	if strings.TrimSpace(c.config.WebhookSecret) == "" {
		return fmt.Errorf("stripe config error: webhook_secret is empty")
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("stripe webhook: bad timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("stripe webhook: malformed signature header")
	}

	age := math.Abs(float64(time.Now().Unix() - timestamp))
	if age > signatureTolerance.Seconds() {
		return fmt.Errorf("stripe webhook: timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(c.config.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("stripe webhook: signature mismatch")
}

// ParseWebhook decodes a verified payload into an event
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("stripe webhook: failed to decode event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("stripe webhook: event type is empty")
	}
	return &event, nil
}

// IntentFromEvent extracts the payment intent carried by an event
func IntentFromEvent(event *WebhookEvent) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return nil, fmt.Errorf("stripe webhook: failed to decode intent: %w", err)
	}
	return &intent, nil
}
