package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/payment"
	"github.com/rs/zerolog"
)

// Pipeline ingests inbound webhook deliveries. Each delivery runs the
// stages parse, structural validation, authentication, metadata validation,
// and dispatch, strictly in that order with early exit on failure.
// Concurrent deliveries share only the injected validator and the listener
// registry, both read-only during a run.
//
// Authentication compares the in-band secret_token against the expected
// shared secret with ordinary equality, matching upstream behavior. The
// signature package carries an HMAC-SHA256 constant-time verifier, but the
// gateway does not sign deliveries with it, so it is not used here.
type Pipeline[T any] struct {
	validator metadata.Validator[T]
	emitter   *Emitter[T]
	logger    zerolog.Logger
}

// NewPipeline wires a pipeline around the client's metadata validator and
// a listener registry.
func NewPipeline[T any](v metadata.Validator[T], emitter *Emitter[T], logger zerolog.Logger) *Pipeline[T] {
	return &Pipeline[T]{
		validator: v,
		emitter:   emitter,
		logger:    logger.With().Str("component", "webhook_pipeline").Logger(),
	}
}

// On registers a listener for one event type.
func (p *Pipeline[T]) On(event Event, h Handler[T]) error {
	return p.emitter.On(event, h)
}

// OnAnyPaymentEvent registers a listener under every known event name.
func (p *Pipeline[T]) OnAnyPaymentEvent(h Handler[T]) {
	p.emitter.OnAnyPaymentEvent(h)
}

// payloadEnvelope mirrors the delivery's top-level wire shape.
type payloadEnvelope struct {
	ID          string          `json:"id"`
	Type        Event           `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
	SecretToken string          `json:"secret_token"`
	AccountName string          `json:"account_name"`
	Live        bool            `json:"live"`
	Data        json.RawMessage `json:"data"`
}

// Ingest runs one inbound delivery through the pipeline and, on success,
// returns the dispatched payload so the HTTP endpoint can reply with it.
// input may be raw bytes, a string, a json.RawMessage, or any value that
// marshals to a JSON object. expectedSecret is the shared secret configured
// for the subscription.
func (p *Pipeline[T]) Ingest(input any, expectedSecret string) (*Payload[T], error) {
	raw, err := normalizeInput(input)
	if err != nil {
		return nil, &apierror.WebhookStructuralError{Violations: []string{err.Error()}}
	}

	fields, err := parseObject(raw)
	if err != nil {
		return nil, &apierror.WebhookStructuralError{Violations: []string{err.Error()}}
	}

	if violations := validateStructure(fields); len(violations) > 0 {
		return nil, &apierror.WebhookStructuralError{Violations: violations}
	}

	var envelope payloadEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &apierror.WebhookStructuralError{Violations: []string{"payload fields have wrong types: " + err.Error()}}
	}

	if err := authenticate(expectedSecret, envelope.SecretToken); err != nil {
		p.logger.Warn().Str("payload_id", envelope.ID).Msg("webhook authentication rejected")
		return nil, err
	}

	meta, err := p.validateMetadata(raw, envelope.Data)
	if err != nil {
		return nil, err
	}

	out := &Payload[T]{
		ID:          envelope.ID,
		Type:        envelope.Type,
		CreatedAt:   envelope.CreatedAt,
		SecretToken: envelope.SecretToken,
		AccountName: envelope.AccountName,
		Live:        envelope.Live,
		Data:        payment.FromWebhookData(envelope.Data, meta),
		RawData:     envelope.Data,
	}

	p.emitter.emit(out)
	p.logger.Debug().
		Str("payload_id", out.ID).
		Str("event", string(out.Type)).
		Bool("live", out.Live).
		Msg("webhook dispatched")
	return out, nil
}

func normalizeInput(input any) (json.RawMessage, error) {
	switch v := input.(type) {
	case nil:
		return nil, fmt.Errorf("payload is empty")
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("payload is not JSON-encodable: %v", err)
		}
		return b, nil
	}
}

func parseObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %v", err)
	}
	return fields, nil
}

func validateStructure(fields map[string]json.RawMessage) []string {
	var violations []string

	for _, required := range []string{"id", "type", "created_at", "account_name", "data"} {
		if _, ok := fields[required]; !ok {
			violations = append(violations, fmt.Sprintf("%s is required", required))
		}
	}

	if rawType, ok := fields["type"]; ok {
		var event Event
		if err := json.Unmarshal(rawType, &event); err != nil {
			violations = append(violations, "type must be a string")
		} else if !event.Valid() {
			violations = append(violations, fmt.Sprintf("type %q is not a known webhook event", event))
		}
	}

	if rawLive, ok := fields["live"]; ok {
		var live bool
		if err := json.Unmarshal(rawLive, &live); err != nil {
			violations = append(violations, "live must be a boolean")
		}
	}

	return violations
}

// authenticate accepts iff both secrets are non-empty and equal. An empty
// expected secret always fails, even against an empty payload secret.
func authenticate(expected, actual string) error {
	if expected == "" {
		return &apierror.WebhookAuthenticationError{Message: "no shared secret configured"}
	}
	if actual == "" {
		return &apierror.WebhookAuthenticationError{Message: "payload carries no secret token"}
	}
	if expected != actual {
		return &apierror.WebhookAuthenticationError{Message: "secret token mismatch"}
	}
	return nil
}

// validateMetadata extracts data.metadata, when present, and runs it
// through the injected validator. Failures carry the original delivery
// bytes, never a partially substituted payload.
func (p *Pipeline[T]) validateMetadata(delivery, data json.RawMessage) (T, error) {
	var zero T

	var dataFields map[string]json.RawMessage
	if err := json.Unmarshal(data, &dataFields); err != nil {
		// data may legitimately be a non-object for some event types
		return p.parseMeta(delivery, nil)
	}

	rawMeta, ok := dataFields["metadata"]
	if !ok || string(rawMeta) == "null" {
		return p.parseMeta(delivery, nil)
	}

	var meta map[string]string
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return zero, &apierror.WebhookMetadataError{Payload: delivery, Err: err}
	}
	return p.parseMeta(delivery, meta)
}

func (p *Pipeline[T]) parseMeta(delivery json.RawMessage, raw map[string]string) (T, error) {
	meta, err := p.validator.Parse(raw)
	if err != nil {
		return meta, &apierror.WebhookMetadataError{Payload: delivery, Err: err}
	}
	return meta, nil
}
