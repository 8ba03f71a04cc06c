package webhook

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Handler consumes one dispatched payload. A non-nil error is logged and
// never fails the pipeline; handlers wanting asynchronous work spawn their
// own goroutines, which the pipeline does not await.
type Handler[T any] func(*Payload[T]) error

// Emitter routes payloads to handlers by event type. Registration and
// dispatch are expected on the same goroutine (the registry is treated as
// immutable for the duration of a dispatch), so no locking is done.
type Emitter[T any] struct {
	handlers map[Event][]Handler[T]
	logger   zerolog.Logger
}

// NewEmitter returns an empty emitter.
func NewEmitter[T any](logger zerolog.Logger) *Emitter[T] {
	return &Emitter[T]{
		handlers: make(map[Event][]Handler[T]),
		logger:   logger.With().Str("component", "webhook_emitter").Logger(),
	}
}

// On registers h for exactly one event type. Unknown events are rejected.
func (e *Emitter[T]) On(event Event, h Handler[T]) error {
	if !event.Valid() {
		return fmt.Errorf("webhook: unknown event type %q", event)
	}
	e.handlers[event] = append(e.handlers[event], h)
	return nil
}

// OnAnyPaymentEvent registers h under every known event name at call time.
// This is fan-out at subscription, not a runtime catch-all: events defined
// after the call (there are none; the enum is closed) would not reach h.
func (e *Emitter[T]) OnAnyPaymentEvent(h Handler[T]) {
	for _, event := range allEvents {
		e.handlers[event] = append(e.handlers[event], h)
	}
}

// emit invokes every handler registered for p.Type, in registration order,
// before returning. Handler errors are logged, never propagated.
func (e *Emitter[T]) emit(p *Payload[T]) {
	for _, h := range e.handlers[p.Type] {
		if err := h(p); err != nil {
			e.logger.Error().
				Err(err).
				Str("event", string(p.Type)).
				Str("payload_id", p.ID).
				Msg("webhook handler failed")
		}
	}
}

// HandlerCount returns the number of handlers registered for event.
func (e *Emitter[T]) HandlerCount(event Event) int {
	return len(e.handlers[event])
}
