package invoice

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/schema"
	"github.com/cassiomorais/gopay/transport"
	"github.com/rs/zerolog"
)

const basePath = "/v1/invoices"

// Service is the invoice resource service.
type Service[T any] struct {
	transport transport.Transport
	validator metadata.Validator[T]
	logger    zerolog.Logger
}

func NewService[T any](t transport.Transport, v metadata.Validator[T], logger zerolog.Logger) *Service[T] {
	return &Service[T]{
		transport: t,
		validator: v,
		logger:    logger.With().Str("service", "invoice").Logger(),
	}
}

// ListOptions selects a page of invoices.
type ListOptions struct {
	Page    int
	PerPage int
	Status  Status
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per", strconv.Itoa(o.PerPage))
	}
	if o.Status != "" {
		q.Set("status", string(o.Status))
	}
	return q
}

// Create validates req locally, posts it, and parses the created invoice.
func (s *Service[T]) Create(ctx context.Context, req CreateRequest) (*Invoice[T], error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("invoice", "create", apierror.NewRequestValidationError(res.Errors))
	}
	req.Currency, _ = schema.NormalizeCurrency(req.Currency)

	raw, err := s.transport.Request(ctx, "POST", basePath, nil, req)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "create", err)
	}
	inv, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "create", err)
	}
	s.logger.Debug().Str("invoice_id", inv.ID).Msg("invoice created")
	return inv, nil
}

// CreateBulk validates every element, then posts them all in one request to
// the bulk endpoint. Validation failures carry "Invoice N: " prefixes; one
// invalid element fails the whole batch before anything is sent.
func (s *Service[T]) CreateBulk(ctx context.Context, reqs []CreateRequest) ([]*Invoice[T], error) {
	if res := ValidateBulk(reqs); !res.Valid {
		return nil, apierror.WrapOp("invoice", "create_bulk", apierror.NewRequestValidationError(res.Errors))
	}
	normalized := make([]CreateRequest, len(reqs))
	for i, req := range reqs {
		req.Currency, _ = schema.NormalizeCurrency(req.Currency)
		normalized[i] = req
	}

	body := map[string][]CreateRequest{"invoices": normalized}
	raw, err := s.transport.Request(ctx, "POST", basePath+"/bulk", nil, body)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "create_bulk", err)
	}

	var doc struct {
		Invoices []json.RawMessage `json:"invoices"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.WrapOp("invoice", "create_bulk",
			apierror.NewResponseParseError("invalid bulk invoice document", raw, err))
	}

	out := make([]*Invoice[T], 0, len(doc.Invoices))
	for _, item := range doc.Invoices {
		inv, err := Decode(item, s.validator)
		if err != nil {
			return nil, apierror.WrapOp("invoice", "create_bulk", err)
		}
		out = append(out, inv)
	}
	s.logger.Debug().Int("count", len(out)).Msg("bulk invoices created")
	return out, nil
}

// Fetch retrieves an invoice together with its payments snapshot.
func (s *Service[T]) Fetch(ctx context.Context, id string) (*DetailedInvoice[T], error) {
	raw, err := s.transport.Request(ctx, "GET", basePath+"/"+id, nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "fetch", err)
	}
	inv, err := DecodeDetailed(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "fetch", err)
	}
	return inv, nil
}

// List retrieves one page of invoices.
func (s *Service[T]) List(ctx context.Context, opts ListOptions) (*List[T], error) {
	raw, err := s.transport.Request(ctx, "GET", basePath, opts.query(), nil)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "list", err)
	}
	list, err := decodeList(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "list", err)
	}
	return list, nil
}

// Update changes the mutable fields of an open invoice.
func (s *Service[T]) Update(ctx context.Context, id string, req UpdateRequest) (*Invoice[T], error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("invoice", "update", apierror.NewRequestValidationError(res.Errors))
	}
	raw, err := s.transport.Request(ctx, "PUT", basePath+"/"+id, nil, req)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "update", err)
	}
	inv, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "update", err)
	}
	return inv, nil
}

// Cancel cancels an open invoice.
func (s *Service[T]) Cancel(ctx context.Context, id string) (*Invoice[T], error) {
	raw, err := s.transport.Request(ctx, "PUT", basePath+"/"+id+"/cancel", nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "cancel", err)
	}
	inv, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("invoice", "cancel", err)
	}
	return inv, nil
}
