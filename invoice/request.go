package invoice

import (
	"fmt"
	"time"

	"github.com/cassiomorais/gopay/schema"
)

// CreateRequest is the payload for creating an invoice.
type CreateRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	CallbackURL string            `json:"callback_url,omitempty"`
	SuccessURL  string            `json:"success_url,omitempty"`
	BackURL     string            `json:"back_url,omitempty"`
	ExpiredAt   *time.Time        `json:"expired_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

var createRequestRules = []string{
	"amount", "currency", "description", "callback_url",
	"success_url", "back_url", "expired_at", "metadata",
}

// Validate checks the request to completion and reports every violation.
func (r CreateRequest) Validate() schema.Result {
	res := schema.OK()

	res.Add(schema.ValidateAmount("amount", r.Amount)...)
	if _, ok := schema.NormalizeCurrency(r.Currency); !ok {
		res.Errf("currency", "unsupported currency %q", r.Currency)
	}
	if r.Description == "" {
		res.Errf("description", "is required")
	}
	if r.ExpiredAt != nil && !r.ExpiredAt.After(time.Now()) {
		res.Errf("expired_at", "must be in the future")
	}

	return res
}

// ValidateBulk validates each element independently, prefixing every error
// with its 1-based index so failures are individually addressable.
func ValidateBulk(reqs []CreateRequest) schema.Result {
	res := schema.OK()
	if len(reqs) == 0 {
		res.Errf("invoices", "at least one invoice is required")
		return res
	}
	for i, req := range reqs {
		res.Merge(fmt.Sprintf("Invoice %d: ", i+1), req.Validate())
	}
	return res
}

// UpdateRequest changes the mutable fields of an open invoice.
type UpdateRequest struct {
	Description string            `json:"description,omitempty"`
	ExpiredAt   *time.Time        `json:"expired_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

var updateRequestRules = []string{"description", "expired_at", "metadata"}

func (r UpdateRequest) Validate() schema.Result {
	res := schema.OK()
	if r.Description == "" && r.ExpiredAt == nil && r.Metadata == nil {
		res.Errf("description", "nothing to update")
	}
	if r.ExpiredAt != nil && !r.ExpiredAt.After(time.Now()) {
		res.Errf("expired_at", "must be in the future")
	}
	return res
}
