package webhook

import (
	"encoding/json"
	"time"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/payment"
	"github.com/cassiomorais/gopay/schema"
)

// Webhook is a registered notification subscription. The shared secret is
// write-only: it appears in create/update requests but the gateway never
// returns it, so the record deliberately has no field for it.
type Webhook struct {
	ID         string
	URL        string
	HTTPMethod string
	Events     []Event
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Attempt is one delivery attempt against a subscription. Read-only audit
// data.
type Attempt struct {
	ID              string
	WebhookID       string
	Event           Event
	RetryNumber     int
	Result          string
	ResponseCode    int
	ResponseHeaders map[string]string
	ResponseBody    string
	CreatedAt       time.Time
}

type webhookDoc struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	HTTPMethod string    `json:"http_method"`
	Events     []Event   `json:"events"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func decodeWebhook(raw []byte) (*Webhook, error) {
	var doc webhookDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.NewResponseParseError("invalid webhook document", raw, err)
	}
	if doc.ID == "" {
		return nil, apierror.NewResponseParseError("webhook id is missing", raw, nil)
	}
	if doc.URL == "" {
		return nil, apierror.NewResponseParseError("webhook url is missing", raw, nil)
	}
	return &Webhook{
		ID:         doc.ID,
		URL:        doc.URL,
		HTTPMethod: doc.HTTPMethod,
		Events:     doc.Events,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}

type attemptDoc struct {
	ID              string            `json:"id"`
	WebhookID       string            `json:"webhook_id"`
	Event           Event             `json:"event"`
	RetryNumber     int               `json:"retry_number"`
	Result          string            `json:"result"`
	ResponseCode    int               `json:"response_code"`
	ResponseHeaders map[string]string `json:"response_headers"`
	ResponseBody    string            `json:"response_body"`
	CreatedAt       time.Time         `json:"created_at"`
}

// WebhookList is one page of subscriptions.
type WebhookList struct {
	Webhooks []*Webhook
	Meta     payment.Pagination
}

// CreateRequest registers a new subscription.
type CreateRequest struct {
	URL          string  `json:"url"`
	HTTPMethod   string  `json:"http_method,omitempty"`
	SharedSecret string  `json:"shared_secret"`
	Events       []Event `json:"events,omitempty"`
}

var createRequestRules = []string{"url", "http_method", "shared_secret", "events"}

// Validate checks the request to completion and reports every violation.
func (r CreateRequest) Validate() schema.Result {
	res := schema.OK()
	if r.URL == "" {
		res.Errf("url", "is required")
	}
	if r.HTTPMethod != "" && r.HTTPMethod != "post" && r.HTTPMethod != "put" {
		res.Errf("http_method", "must be post or put, got %q", r.HTTPMethod)
	}
	if r.SharedSecret == "" {
		res.Errf("shared_secret", "is required")
	}
	for i, e := range r.Events {
		if !e.Valid() {
			res.Errf("events", "element %d: unknown event %q", i+1, e)
		}
	}
	return res
}

// UpdateRequest changes a subscription. A zero field is left unchanged.
type UpdateRequest struct {
	URL          string  `json:"url,omitempty"`
	HTTPMethod   string  `json:"http_method,omitempty"`
	SharedSecret string  `json:"shared_secret,omitempty"`
	Events       []Event `json:"events,omitempty"`
}

var updateRequestRules = []string{"url", "http_method", "shared_secret", "events"}

func (r UpdateRequest) Validate() schema.Result {
	res := schema.OK()
	if r.URL == "" && r.HTTPMethod == "" && r.SharedSecret == "" && r.Events == nil {
		res.Errf("url", "nothing to update")
	}
	if r.HTTPMethod != "" && r.HTTPMethod != "post" && r.HTTPMethod != "put" {
		res.Errf("http_method", "must be post or put, got %q", r.HTTPMethod)
	}
	for i, e := range r.Events {
		if !e.Valid() {
			res.Errf("events", "element %d: unknown event %q", i+1, e)
		}
	}
	return res
}
