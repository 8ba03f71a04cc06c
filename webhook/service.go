package webhook

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/payment"
	"github.com/cassiomorais/gopay/transport"
	"github.com/rs/zerolog"
)

const basePath = "/v1/webhooks"

// Service manages webhook subscriptions and their delivery-attempt audit
// trail. Ingestion of inbound payloads is the Pipeline's job, not the
// service's.
type Service struct {
	transport transport.Transport
	logger    zerolog.Logger
}

func NewService(t transport.Transport, logger zerolog.Logger) *Service {
	return &Service{
		transport: t,
		logger:    logger.With().Str("service", "webhook").Logger(),
	}
}

// Create registers a subscription. The shared secret travels in the
// request and is never echoed back.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Webhook, error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("webhook", "create", apierror.NewRequestValidationError(res.Errors))
	}
	raw, err := s.transport.Request(ctx, "POST", basePath, nil, req)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "create", err)
	}
	w, err := decodeWebhook(raw)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "create", err)
	}
	s.logger.Debug().Str("webhook_id", w.ID).Str("url", w.URL).Msg("webhook registered")
	return w, nil
}

// Fetch retrieves a subscription by id.
func (s *Service) Fetch(ctx context.Context, id string) (*Webhook, error) {
	raw, err := s.transport.Request(ctx, "GET", basePath+"/"+id, nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "fetch", err)
	}
	w, err := decodeWebhook(raw)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "fetch", err)
	}
	return w, nil
}

// List retrieves one page of subscriptions.
func (s *Service) List(ctx context.Context, page, perPage int) (*WebhookList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per", strconv.Itoa(perPage))
	}

	raw, err := s.transport.Request(ctx, "GET", basePath, q, nil)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "list", err)
	}

	var doc struct {
		Webhooks []json.RawMessage  `json:"webhooks"`
		Meta     payment.Pagination `json:"meta"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.WrapOp("webhook", "list",
			apierror.NewResponseParseError("invalid webhook list document", raw, err))
	}

	out := &WebhookList{Meta: doc.Meta, Webhooks: make([]*Webhook, 0, len(doc.Webhooks))}
	for _, item := range doc.Webhooks {
		w, err := decodeWebhook(item)
		if err != nil {
			return nil, apierror.WrapOp("webhook", "list", err)
		}
		out.Webhooks = append(out.Webhooks, w)
	}
	return out, nil
}

// Update changes a subscription.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Webhook, error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("webhook", "update", apierror.NewRequestValidationError(res.Errors))
	}
	raw, err := s.transport.Request(ctx, "PUT", basePath+"/"+id, nil, req)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "update", err)
	}
	w, err := decodeWebhook(raw)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "update", err)
	}
	return w, nil
}

// Delete removes a subscription.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.transport.Request(ctx, "DELETE", basePath+"/"+id, nil, nil)
	if err != nil {
		return apierror.WrapOp("webhook", "delete", err)
	}
	s.logger.Debug().Str("webhook_id", id).Msg("webhook deleted")
	return nil
}

// ListAttempts retrieves the delivery attempts recorded for a subscription.
func (s *Service) ListAttempts(ctx context.Context, webhookID string) ([]*Attempt, error) {
	raw, err := s.transport.Request(ctx, "GET", basePath+"/"+webhookID+"/attempts", nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "list_attempts", err)
	}

	var doc struct {
		Attempts []attemptDoc `json:"webhook_attempts"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.WrapOp("webhook", "list_attempts",
			apierror.NewResponseParseError("invalid webhook attempts document", raw, err))
	}

	out := make([]*Attempt, 0, len(doc.Attempts))
	for _, a := range doc.Attempts {
		out = append(out, &Attempt{
			ID:              a.ID,
			WebhookID:       a.WebhookID,
			Event:           a.Event,
			RetryNumber:     a.RetryNumber,
			Result:          a.Result,
			ResponseCode:    a.ResponseCode,
			ResponseHeaders: a.ResponseHeaders,
			ResponseBody:    a.ResponseBody,
			CreatedAt:       a.CreatedAt,
		})
	}
	return out, nil
}

// AvailableEvents asks the gateway which event types it can deliver. A
// reply that does not parse as an event list falls back to the compiled
// enum so subscription setup keeps working against older gateways.
func (s *Service) AvailableEvents(ctx context.Context) ([]Event, error) {
	raw, err := s.transport.Request(ctx, "GET", basePath+"/available_events", nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("webhook", "available_events", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		s.logger.Warn().Err(err).Msg("unparseable available events document, using compiled event list")
		return Events(), nil
	}
	return events, nil
}
