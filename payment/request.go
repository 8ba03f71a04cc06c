package payment

import (
	"encoding/json"
	"fmt"

	"github.com/cassiomorais/gopay/schema"
)

// SourceRequest is the request-side payment source union. Callers construct
// one of the typed variants; validation selects the variant's rule set by
// its discriminator before checking the remaining fields.
type SourceRequest interface {
	SourceType() SourceType
}

// CreditCardRequest charges a card directly.
type CreditCardRequest struct {
	Name     string `json:"name" validate:"required"`
	Number   string `json:"number" validate:"required,credit_card"`
	CVC      string `json:"cvc" validate:"required,numeric,min=3,max=4"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Year     int    `json:"year" validate:"required,min=2000"`
	SaveCard bool   `json:"save_card"`
	Manual   bool   `json:"manual"` // authorize only, capture later
}

func (CreditCardRequest) SourceType() SourceType { return SourceCreditCard }

// ApplePayRequest charges an Apple Pay payment token.
type ApplePayRequest struct {
	Token string `json:"token" validate:"required"`
}

func (ApplePayRequest) SourceType() SourceType { return SourceApplePay }

// GooglePayRequest charges a Google Pay payment token.
type GooglePayRequest struct {
	Token string `json:"token" validate:"required"`
}

func (GooglePayRequest) SourceType() SourceType { return SourceGooglePay }

// SamsungPayRequest charges a Samsung Pay payment token.
type SamsungPayRequest struct {
	Token string `json:"token" validate:"required"`
}

func (SamsungPayRequest) SourceType() SourceType { return SourceSamsungPay }

// STCPayRequest initiates an STC Pay charge against a mobile number.
type STCPayRequest struct {
	Mobile string `json:"mobile" validate:"required,numeric,min=9,max=14"`
}

func (STCPayRequest) SourceType() SourceType { return SourceSTCPay }

// TokenRequest charges a previously saved card token.
type TokenRequest struct {
	Token  string `json:"token" validate:"required"`
	Manual bool   `json:"manual"`
}

func (TokenRequest) SourceType() SourceType { return SourceToken }

// CreateRequest is the payload for creating a payment.
type CreateRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Source      SourceRequest     `json:"source"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	GivenID     string            `json:"given_id,omitempty"`
}

// createRequestRules names every CreateRequest field carrying a validation
// decision, kept in lockstep with the struct by a parity test.
var createRequestRules = []string{
	"amount", "currency", "description", "callback_url",
	"source", "metadata", "given_id",
}

// Validate checks the request to completion and reports every violation.
func (r CreateRequest) Validate() schema.Result {
	res := schema.OK()

	res.Add(schema.ValidateAmount("amount", r.Amount)...)
	if _, ok := schema.NormalizeCurrency(r.Currency); !ok {
		res.Errf("currency", "unsupported currency %q", r.Currency)
	}
	res.Add(validateSource(r.Source)...)

	return res
}

func validateSource(s SourceRequest) []string {
	if s == nil {
		return []string{"source: is required"}
	}
	if !s.SourceType().Valid() {
		return []string{fmt.Sprintf("source.type: unknown payment source type %q", s.SourceType())}
	}
	errs := schema.CheckStruct(s)
	for i, e := range errs {
		errs[i] = "source." + e
	}
	return errs
}

// MarshalJSON injects the source discriminator next to the variant fields,
// producing the flat source object the gateway expects.
func (r CreateRequest) MarshalJSON() ([]byte, error) {
	type alias CreateRequest
	doc := struct {
		alias
		Source json.RawMessage `json:"source"`
	}{alias: alias(r)}

	if r.Source != nil {
		encoded, err := marshalSource(r.Source)
		if err != nil {
			return nil, err
		}
		doc.Source = encoded
	}
	return json.Marshal(doc)
}

func marshalSource(s SourceRequest) (json.RawMessage, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	fields["type"] = string(s.SourceType())
	return json.Marshal(fields)
}

// RefundRequest refunds part or all of the captured amount. A zero Amount
// refunds the full refundable remainder.
type RefundRequest struct {
	Amount int64 `json:"amount,omitempty"`
}

var refundRequestRules = []string{"amount"}

func (r RefundRequest) Validate() schema.Result {
	res := schema.OK()
	if r.Amount < 0 {
		res.Errf("amount", "must not be negative, got %d", r.Amount)
	}
	return res
}

// CaptureRequest captures part or all of an authorized amount. A zero
// Amount captures the full authorization.
type CaptureRequest struct {
	Amount int64 `json:"amount,omitempty"`
}

var captureRequestRules = []string{"amount"}

func (r CaptureRequest) Validate() schema.Result {
	res := schema.OK()
	if r.Amount < 0 {
		res.Errf("amount", "must not be negative, got %d", r.Amount)
	}
	return res
}

// UpdateRequest changes the mutable annotations of a payment.
type UpdateRequest struct {
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

var updateRequestRules = []string{"description", "metadata"}

func (r UpdateRequest) Validate() schema.Result {
	res := schema.OK()
	if r.Description == "" && r.Metadata == nil {
		res.Errf("description", "nothing to update: description or metadata required")
	}
	return res
}
