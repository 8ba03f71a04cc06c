package payment

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/schema"
	"github.com/cassiomorais/gopay/transport"
	"github.com/rs/zerolog"
)

const basePath = "/v1/payments"

// Service is the payment resource service: a thin orchestrator over the
// transport collaborator, the schema layer, and the injected metadata
// validator.
type Service[T any] struct {
	transport transport.Transport
	validator metadata.Validator[T]
	logger    zerolog.Logger
}

// NewService wires a payment service around the shared transport and the
// client's single metadata validator.
func NewService[T any](t transport.Transport, v metadata.Validator[T], logger zerolog.Logger) *Service[T] {
	return &Service[T]{
		transport: t,
		validator: v,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// ListOptions selects a page of payments.
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

// Create validates req locally, posts it, and parses the created payment.
func (s *Service[T]) Create(ctx context.Context, req CreateRequest) (*Payment[T], error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("payment", "create", apierror.NewRequestValidationError(res.Errors))
	}
	req.Currency, _ = schema.NormalizeCurrency(req.Currency)

	raw, err := s.transport.Request(ctx, "POST", basePath, nil, req)
	if err != nil {
		return nil, apierror.WrapOp("payment", "create", err)
	}

	p, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "create", err)
	}
	s.logger.Debug().Str("payment_id", p.ID).Str("status", string(p.Status)).Msg("payment created")
	return p, nil
}

// Fetch retrieves a payment by id.
func (s *Service[T]) Fetch(ctx context.Context, id string) (*Payment[T], error) {
	raw, err := s.transport.Request(ctx, "GET", basePath+"/"+id, nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("payment", "fetch", err)
	}
	p, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "fetch", err)
	}
	return p, nil
}

// List retrieves one page of payments.
func (s *Service[T]) List(ctx context.Context, opts ListOptions) (*List[T], error) {
	raw, err := s.transport.Request(ctx, "GET", basePath, opts.query(), nil)
	if err != nil {
		return nil, apierror.WrapOp("payment", "list", err)
	}
	list, err := decodeList(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "list", err)
	}
	return list, nil
}

// Update changes the payment's description or metadata.
func (s *Service[T]) Update(ctx context.Context, id string, req UpdateRequest) (*Payment[T], error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("payment", "update", apierror.NewRequestValidationError(res.Errors))
	}
	raw, err := s.transport.Request(ctx, "PUT", basePath+"/"+id, nil, req)
	if err != nil {
		return nil, apierror.WrapOp("payment", "update", err)
	}
	p, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "update", err)
	}
	return p, nil
}

// Refund returns previously captured funds. The gateway enforces the
// refundable bound; use CanRefund and MaxRefundAmount on a snapshot to
// derive eligibility locally before calling.
func (s *Service[T]) Refund(ctx context.Context, id string, req RefundRequest) (*Payment[T], error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("payment", "refund", apierror.NewRequestValidationError(res.Errors))
	}
	raw, err := s.transport.Request(ctx, "POST", basePath+"/"+id+"/refund", nil, req)
	if err != nil {
		return nil, apierror.WrapOp("payment", "refund", err)
	}
	p, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "refund", err)
	}
	s.logger.Debug().Str("payment_id", p.ID).Int64("refunded", p.Refunded).Msg("payment refunded")
	return p, nil
}

// Capture converts an authorized payment into a charged one, up to the
// original authorized amount.
func (s *Service[T]) Capture(ctx context.Context, id string, req CaptureRequest) (*Payment[T], error) {
	if res := req.Validate(); !res.Valid {
		return nil, apierror.WrapOp("payment", "capture", apierror.NewRequestValidationError(res.Errors))
	}
	raw, err := s.transport.Request(ctx, "POST", basePath+"/"+id+"/capture", nil, req)
	if err != nil {
		return nil, apierror.WrapOp("payment", "capture", err)
	}
	p, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "capture", err)
	}
	return p, nil
}

// Void cancels an authorized payment before capture.
func (s *Service[T]) Void(ctx context.Context, id string) (*Payment[T], error) {
	raw, err := s.transport.Request(ctx, "POST", basePath+"/"+id+"/void", nil, nil)
	if err != nil {
		return nil, apierror.WrapOp("payment", "void", err)
	}
	p, err := Decode(raw, s.validator)
	if err != nil {
		return nil, apierror.WrapOp("payment", "void", err)
	}
	return p, nil
}
