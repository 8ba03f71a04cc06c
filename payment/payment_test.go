package payment_test

import (
	"testing"

	"github.com/cassiomorais/gopay/payment"
	"github.com/stretchr/testify/assert"
)

func snapshot(status payment.Status, amount, captured, refunded int64) *payment.Payment[map[string]string] {
	return &payment.Payment[map[string]string]{
		ID:       "pay_123",
		Status:   status,
		Amount:   amount,
		Captured: captured,
		Refunded: refunded,
		Currency: "SAR",
	}
}

func TestIsFinal_Closure(t *testing.T) {
	finals := map[payment.Status]bool{
		payment.StatusInitiated:  false,
		payment.StatusAuthorized: false,
		payment.StatusPaid:       true,
		payment.StatusFailed:     true,
		payment.StatusRefunded:   true,
		payment.StatusCaptured:   true,
		payment.StatusVoided:     true,
		payment.StatusVerified:   true,
	}
	assert.Len(t, finals, len(payment.Statuses()))
	for s, want := range finals {
		assert.Equal(t, want, payment.IsFinal(s), "status %s", s)
	}
}

func TestCanRefund_PaidWithCapturedRemainder(t *testing.T) {
	p := snapshot(payment.StatusPaid, 5000, 5000, 0)
	assert.True(t, p.CanRefund())
	assert.Equal(t, int64(5000), p.MaxRefundAmount())
}

func TestCanRefund_FullyRefunded(t *testing.T) {
	p := snapshot(payment.StatusPaid, 5000, 5000, 5000)
	assert.False(t, p.CanRefund())
	assert.Equal(t, int64(0), p.MaxRefundAmount())
}

func TestCanRefund_PartiallyRefunded(t *testing.T) {
	p := snapshot(payment.StatusCaptured, 5000, 5000, 2000)
	assert.True(t, p.CanRefund())
	assert.Equal(t, int64(3000), p.MaxRefundAmount())
}

func TestCanRefund_WrongStatus(t *testing.T) {
	for _, s := range []payment.Status{
		payment.StatusInitiated, payment.StatusAuthorized, payment.StatusFailed,
		payment.StatusRefunded, payment.StatusVoided, payment.StatusVerified,
	} {
		p := snapshot(s, 5000, 5000, 0)
		assert.False(t, p.CanRefund(), "status %s", s)
	}
}

func TestCanRefund_NothingCaptured(t *testing.T) {
	p := snapshot(payment.StatusPaid, 5000, 0, 0)
	assert.False(t, p.CanRefund())
}

func TestMaxRefundAmount_NeverNegative(t *testing.T) {
	p := snapshot(payment.StatusPaid, 5000, 1000, 2000)
	assert.Equal(t, int64(0), p.MaxRefundAmount())
}

func TestCaptureAndVoid_AgreeOnEveryStatus(t *testing.T) {
	for _, s := range payment.Statuses() {
		p := snapshot(s, 5000, 0, 0)
		assert.Equal(t, p.CanCapture(), p.CanVoid(), "status %s", s)
		assert.Equal(t, s == payment.StatusAuthorized, p.CanCapture(), "status %s", s)
	}
}

func TestMaxCaptureAmount(t *testing.T) {
	authorized := snapshot(payment.StatusAuthorized, 7500, 0, 0)
	assert.Equal(t, int64(7500), authorized.MaxCaptureAmount())

	paid := snapshot(payment.StatusPaid, 7500, 7500, 0)
	assert.Equal(t, int64(0), paid.MaxCaptureAmount())
}

func TestStatusValid(t *testing.T) {
	for _, s := range payment.Statuses() {
		assert.True(t, s.Valid())
	}
	assert.False(t, payment.Status("settled").Valid())
}
