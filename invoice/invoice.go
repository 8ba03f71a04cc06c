// Package invoice holds the invoice record and its resource service,
// including bulk creation with individually addressable validation errors.
package invoice

import (
	"encoding/json"
	"time"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/payment"
)

// Status is the gateway-side invoice status.
type Status string

const (
	StatusInitiated Status = "initiated"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
	StatusCanceled  Status = "canceled"
	StatusOnHold    Status = "on_hold"
	StatusExpired   Status = "expired"
	StatusVoided    Status = "voided"
)

// Valid reports whether s is a defined status.
func (s Status) Valid() bool {
	switch s {
	case StatusInitiated, StatusPaid, StatusFailed, StatusRefunded,
		StatusCanceled, StatusOnHold, StatusExpired, StatusVoided:
		return true
	}
	return false
}

// Invoice is a read-only snapshot of a gateway invoice.
type Invoice[T any] struct {
	ID           string
	Status       Status
	Amount       int64
	Currency     string
	Description  string
	AmountFormat string
	URL          string
	CallbackURL  string
	Metadata     T
	ExpiredAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DetailedInvoice additionally carries the payments made against the
// invoice. The payments are referenced, not owned: the gateway is the
// source of truth and this is a snapshot list taken at retrieval time.
type DetailedInvoice[T any] struct {
	Invoice[T]
	Payments []*payment.Payment[T]
}

type invoiceDoc struct {
	ID           string            `json:"id"`
	Status       Status            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Description  string            `json:"description"`
	AmountFormat string            `json:"amount_format"`
	URL          string            `json:"url"`
	CallbackURL  string            `json:"callback_url"`
	Metadata     map[string]string `json:"metadata"`
	ExpiredAt    *time.Time        `json:"expired_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Payments     []json.RawMessage `json:"payments"`
}

// Decode parses a gateway invoice document defensively; any contract
// mismatch yields a *apierror.ResponseParseError.
func Decode[T any](raw []byte, v metadata.Validator[T]) (*Invoice[T], error) {
	doc, meta, err := decodeDoc(raw, v)
	if err != nil {
		return nil, err
	}
	inv := fromDoc(doc, meta)
	return &inv, nil
}

// DecodeDetailed parses an invoice document together with its payments
// snapshot list.
func DecodeDetailed[T any](raw []byte, v metadata.Validator[T]) (*DetailedInvoice[T], error) {
	doc, meta, err := decodeDoc(raw, v)
	if err != nil {
		return nil, err
	}

	out := &DetailedInvoice[T]{Invoice: fromDoc(doc, meta)}
	for _, item := range doc.Payments {
		p, err := payment.Decode(item, v)
		if err != nil {
			return nil, err
		}
		out.Payments = append(out.Payments, p)
	}
	return out, nil
}

func decodeDoc[T any](raw []byte, v metadata.Validator[T]) (invoiceDoc, T, error) {
	var (
		doc  invoiceDoc
		meta T
	)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, meta, apierror.NewResponseParseError("invalid invoice document", raw, err)
	}
	if doc.ID == "" {
		return doc, meta, apierror.NewResponseParseError("invoice id is missing", raw, nil)
	}
	if !doc.Status.Valid() {
		return doc, meta, apierror.NewResponseParseError("unknown invoice status "+string(doc.Status), raw, nil)
	}
	if doc.Amount < 0 {
		return doc, meta, apierror.NewResponseParseError("negative invoice amount", raw, nil)
	}

	meta, err := v.Parse(doc.Metadata)
	if err != nil {
		return doc, meta, apierror.NewResponseParseError("metadata rejected by validator", raw, err)
	}
	return doc, meta, nil
}

func fromDoc[T any](doc invoiceDoc, meta T) Invoice[T] {
	return Invoice[T]{
		ID:           doc.ID,
		Status:       doc.Status,
		Amount:       doc.Amount,
		Currency:     doc.Currency,
		Description:  doc.Description,
		AmountFormat: doc.AmountFormat,
		URL:          doc.URL,
		CallbackURL:  doc.CallbackURL,
		Metadata:     meta,
		ExpiredAt:    doc.ExpiredAt,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// List is one page of invoices.
type List[T any] struct {
	Invoices []*Invoice[T]
	Meta     payment.Pagination
}

func decodeList[T any](raw []byte, v metadata.Validator[T]) (*List[T], error) {
	var doc struct {
		Invoices []json.RawMessage  `json:"invoices"`
		Meta     payment.Pagination `json:"meta"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.NewResponseParseError("invalid invoice list document", raw, err)
	}

	out := &List[T]{Meta: doc.Meta, Invoices: make([]*Invoice[T], 0, len(doc.Invoices))}
	for _, item := range doc.Invoices {
		inv, err := Decode(item, v)
		if err != nil {
			return nil, err
		}
		out.Invoices = append(out.Invoices, inv)
	}
	return out, nil
}
