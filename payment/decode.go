package payment

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/metadata"
)

// paymentDoc mirrors the gateway's payment wire shape.
type paymentDoc struct {
	ID             string            `json:"id"`
	Status         Status            `json:"status"`
	Amount         int64             `json:"amount"`
	Fee            int64             `json:"fee"`
	Currency       string            `json:"currency"`
	Refunded       int64             `json:"refunded"`
	RefundedAt     *time.Time        `json:"refunded_at"`
	Captured       int64             `json:"captured"`
	CapturedAt     *time.Time        `json:"captured_at"`
	VoidedAt       *time.Time        `json:"voided_at"`
	Description    string            `json:"description"`
	AmountFormat   string            `json:"amount_format"`
	FeeFormat      string            `json:"fee_format"`
	RefundedFormat string            `json:"refunded_format"`
	CapturedFormat string            `json:"captured_format"`
	InvoiceID      *string           `json:"invoice_id"`
	IP             string            `json:"ip"`
	CallbackURL    string            `json:"callback_url"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Metadata       map[string]string `json:"metadata"`
	Source         json.RawMessage   `json:"source"`
}

// Decode parses a gateway payment document defensively. A document that
// does not match the contract is a contract violation the caller cannot
// recover from, so any mismatch yields a *apierror.ResponseParseError.
// Metadata passes through the injected validator before the payment is
// returned.
func Decode[T any](raw []byte, v metadata.Validator[T]) (*Payment[T], error) {
	var doc paymentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.NewResponseParseError("invalid payment document", raw, err)
	}

	if doc.ID == "" {
		return nil, apierror.NewResponseParseError("payment id is missing", raw, nil)
	}
	if !doc.Status.Valid() {
		return nil, apierror.NewResponseParseError("unknown payment status "+string(doc.Status), raw, nil)
	}
	if doc.Amount < 0 || doc.Fee < 0 || doc.Captured < 0 || doc.Refunded < 0 {
		return nil, apierror.NewResponseParseError("negative monetary counter", raw, nil)
	}
	if doc.Currency == "" {
		return nil, apierror.NewResponseParseError("payment currency is missing", raw, nil)
	}

	var src Source
	if len(doc.Source) > 0 && !bytes.Equal(doc.Source, []byte("null")) {
		decoded, err := decodeSource(doc.Source)
		if err != nil {
			return nil, apierror.NewResponseParseError(err.Error(), raw, nil)
		}
		src = decoded
	}

	meta, err := v.Parse(doc.Metadata)
	if err != nil {
		return nil, apierror.NewResponseParseError("metadata rejected by validator", raw, err)
	}

	return fromDoc(doc, src, meta), nil
}

// FromWebhookData builds a best-effort payment snapshot from a webhook data
// document whose metadata has already been validated. Fields that do not
// decode are left zero; non-payment event data simply yields a sparse
// snapshot.
func FromWebhookData[T any](raw []byte, meta T) *Payment[T] {
	var doc paymentDoc
	_ = json.Unmarshal(raw, &doc)

	var src Source
	if len(doc.Source) > 0 && !bytes.Equal(doc.Source, []byte("null")) {
		if decoded, err := decodeSource(doc.Source); err == nil {
			src = decoded
		}
	}
	return fromDoc(doc, src, meta)
}

func fromDoc[T any](doc paymentDoc, src Source, meta T) *Payment[T] {
	return &Payment[T]{
		ID:             doc.ID,
		Status:         doc.Status,
		Amount:         doc.Amount,
		Fee:            doc.Fee,
		Captured:       doc.Captured,
		Refunded:       doc.Refunded,
		Currency:       doc.Currency,
		Description:    doc.Description,
		AmountFormat:   doc.AmountFormat,
		FeeFormat:      doc.FeeFormat,
		CapturedFormat: doc.CapturedFormat,
		RefundedFormat: doc.RefundedFormat,
		InvoiceID:      doc.InvoiceID,
		IP:             doc.IP,
		CallbackURL:    doc.CallbackURL,
		Source:         src,
		Metadata:       meta,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
		CapturedAt:     doc.CapturedAt,
		RefundedAt:     doc.RefundedAt,
		VoidedAt:       doc.VoidedAt,
	}
}

// Pagination is the list-endpoint paging envelope.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"previous_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
}

// List is one page of payments.
type List[T any] struct {
	Payments []*Payment[T]
	Meta     Pagination
}

func decodeList[T any](raw []byte, v metadata.Validator[T]) (*List[T], error) {
	var doc struct {
		Payments []json.RawMessage `json:"payments"`
		Meta     Pagination        `json:"meta"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.NewResponseParseError("invalid payment list document", raw, err)
	}

	out := &List[T]{Meta: doc.Meta, Payments: make([]*Payment[T], 0, len(doc.Payments))}
	for _, item := range doc.Payments {
		p, err := Decode(item, v)
		if err != nil {
			return nil, err
		}
		out.Payments = append(out.Payments, p)
	}
	return out, nil
}
