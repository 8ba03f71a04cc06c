// Package payment holds the payment record, its source tagged union, the
// lifecycle engine that derives allowed actions from a payment snapshot,
// and the payment resource service.
package payment

import "time"

// Status is the gateway-side payment status. The client never mutates a
// payment locally; it only computes derived facts from the last-known
// snapshot.
type Status string

const (
	StatusInitiated  Status = "initiated"
	StatusPaid       Status = "paid"
	StatusAuthorized Status = "authorized"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
	StatusCaptured   Status = "captured"
	StatusVoided     Status = "voided"
	StatusVerified   Status = "verified"
)

// Statuses returns every defined payment status.
func Statuses() []Status {
	return []Status{
		StatusInitiated, StatusPaid, StatusAuthorized, StatusFailed,
		StatusRefunded, StatusCaptured, StatusVoided, StatusVerified,
	}
}

// Valid reports whether s is a defined status.
func (s Status) Valid() bool {
	switch s {
	case StatusInitiated, StatusPaid, StatusAuthorized, StatusFailed,
		StatusRefunded, StatusCaptured, StatusVoided, StatusVerified:
		return true
	}
	return false
}

// Payment is a read-only snapshot of a gateway payment. Monetary fields are
// non-negative integers in minor currency units and satisfy
// 0 <= Refunded <= Captured <= Amount. T is the caller-defined metadata
// shape produced by the injected metadata validator.
type Payment[T any] struct {
	ID             string
	Status         Status
	Amount         int64
	Fee            int64
	Captured       int64
	Refunded       int64
	Currency       string
	Description    string
	AmountFormat   string
	FeeFormat      string
	CapturedFormat string
	RefundedFormat string
	InvoiceID      *string
	IP             string
	CallbackURL    string
	Source         Source
	Metadata       T
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CapturedAt     *time.Time
	RefundedAt     *time.Time
	VoidedAt       *time.Time
}

// IsFinal reports whether s is a terminal status. Initiated and authorized
// payments are the only non-final ones.
func IsFinal(s Status) bool {
	switch s {
	case StatusPaid, StatusFailed, StatusRefunded, StatusCaptured,
		StatusVoided, StatusVerified:
		return true
	}
	return false
}

// CanRefund reports whether any captured funds remain refundable. Refunds
// are bounded by what was actually captured, not the authorized amount.
func (p *Payment[T]) CanRefund() bool {
	if p.Status != StatusPaid && p.Status != StatusCaptured {
		return false
	}
	return p.Captured-p.Refunded > 0 && p.Refunded < p.Captured
}

// CanCapture reports whether the payment is awaiting capture.
func (p *Payment[T]) CanCapture() bool {
	return p.Status == StatusAuthorized
}

// CanVoid reports whether the authorization can still be cancelled.
func (p *Payment[T]) CanVoid() bool {
	return p.Status == StatusAuthorized
}

// MaxRefundAmount returns the refundable remainder in minor units, never
// negative.
func (p *Payment[T]) MaxRefundAmount() int64 {
	remaining := p.Captured - p.Refunded
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MaxCaptureAmount returns the amount capturable from the authorization, or
// 0 when the payment is not authorized.
func (p *Payment[T]) MaxCaptureAmount() int64 {
	if p.Status != StatusAuthorized {
		return 0
	}
	return p.Amount
}
