// Package webhook covers both sides of the gateway's webhook feature:
// managing subscriptions (CRUD plus delivery-attempt audit data) and
// ingesting inbound notification payloads through a validating,
// authenticating, typed dispatch pipeline.
package webhook

// Event is one of the gateway's notification event types. The set is
// closed; the emitter rejects registrations for anything else.
type Event string

const (
	EventPaymentPaid        Event = "payment_paid"
	EventPaymentFailed      Event = "payment_failed"
	EventPaymentAuthorized  Event = "payment_authorized"
	EventPaymentCaptured    Event = "payment_captured"
	EventPaymentRefunded    Event = "payment_refunded"
	EventPaymentVoided      Event = "payment_voided"
	EventPaymentAbandoned   Event = "payment_abandoned"
	EventPaymentVerified    Event = "payment_verified"
	EventPaymentCanceled    Event = "payment_canceled"
	EventPaymentExpired     Event = "payment_expired"
	EventBalanceTransferred Event = "balance_transferred"
	EventPayoutInitiated    Event = "payout_initiated"
	EventPayoutPaid         Event = "payout_paid"
	EventPayoutFailed       Event = "payout_failed"
	EventPayoutCanceled     Event = "payout_canceled"
	EventPayoutReturned     Event = "payout_returned"
)

var allEvents = []Event{
	EventPaymentPaid, EventPaymentFailed, EventPaymentAuthorized,
	EventPaymentCaptured, EventPaymentRefunded, EventPaymentVoided,
	EventPaymentAbandoned, EventPaymentVerified, EventPaymentCanceled,
	EventPaymentExpired, EventBalanceTransferred, EventPayoutInitiated,
	EventPayoutPaid, EventPayoutFailed, EventPayoutCanceled,
	EventPayoutReturned,
}

// Events returns every known event type, in a stable order.
func Events() []Event {
	out := make([]Event, len(allEvents))
	copy(out, allEvents)
	return out
}

// Valid reports whether e is a known event type.
func (e Event) Valid() bool {
	for _, known := range allEvents {
		if e == known {
			return true
		}
	}
	return false
}
