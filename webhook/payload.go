package webhook

import (
	"encoding/json"
	"time"

	"github.com/cassiomorais/gopay/payment"
)

// Payload is one inbound webhook delivery. It is constructed once per
// delivery by the ingestion pipeline, is immutable afterwards, and is never
// persisted by this library.
//
// Data is the payment snapshot most event types carry, its metadata already
// typed by the injected validator. Payout and balance events do not carry a
// payment; for those Data is sparse and RawData holds the original
// document.
type Payload[T any] struct {
	ID          string
	Type        Event
	CreatedAt   time.Time
	SecretToken string
	AccountName string
	Live        bool
	Data        *payment.Payment[T]
	RawData     json.RawMessage
}
