package webhook_test

import (
	"testing"

	"github.com/cassiomorais/gopay/webhook"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_OnRejectsUnknownEvent(t *testing.T) {
	e := webhook.NewEmitter[map[string]string](zerolog.Nop())
	err := e.On(webhook.Event("payment_imagined"), func(*webhook.Payload[map[string]string]) error { return nil })
	assert.Error(t, err)
}

func TestEmitter_OnRegistersSingleEvent(t *testing.T) {
	e := webhook.NewEmitter[map[string]string](zerolog.Nop())
	require.NoError(t, e.On(webhook.EventPaymentPaid, func(*webhook.Payload[map[string]string]) error { return nil }))

	assert.Equal(t, 1, e.HandlerCount(webhook.EventPaymentPaid))
	assert.Equal(t, 0, e.HandlerCount(webhook.EventPaymentFailed))
}

func TestEmitter_OnAnyPaymentEventFansOutAtSubscribeTime(t *testing.T) {
	e := webhook.NewEmitter[map[string]string](zerolog.Nop())
	e.OnAnyPaymentEvent(func(*webhook.Payload[map[string]string]) error { return nil })

	for _, event := range webhook.Events() {
		assert.Equal(t, 1, e.HandlerCount(event), "event %s", event)
	}
}

func TestEvents_CoversKnownSet(t *testing.T) {
	events := webhook.Events()
	assert.Len(t, events, 16)
	for _, e := range events {
		assert.True(t, e.Valid())
	}
	assert.False(t, webhook.Event("payment_imagined").Valid())
}
