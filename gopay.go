// Package gopay is a Go client for the Moyasar payment gateway. It exposes
// payment, invoice and webhook management services plus an inbound webhook
// ingestion pipeline, all parameterized by a caller-defined metadata type.
package gopay

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cassiomorais/gopay/internal/observability"
	"github.com/cassiomorais/gopay/invoice"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/payment"
	"github.com/cassiomorais/gopay/transport"
	"github.com/cassiomorais/gopay/webhook"
)

// Client bundles every gateway service behind a single metadata type T.
type Client[T any] struct {
	Payments *payment.Service[T]
	Invoices *invoice.Service[T]
	Webhooks *webhook.Service
	Pipeline *webhook.Pipeline[T]

	logger zerolog.Logger
}

type clientOptions struct {
	transport   transport.Transport
	logger      *zerolog.Logger
	logOutput   io.Writer
	metricsReg  prometheus.Registerer
	transportOp []transport.Option
}

// ClientOption customizes a Client.
type ClientOption func(*clientOptions)

// WithTransport replaces the HTTP transport entirely. Useful for tests.
func WithTransport(t transport.Transport) ClientOption {
	return func(o *clientOptions) { o.transport = t }
}

// WithLogger replaces the client logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = &logger }
}

// WithLogOutput directs the default logger's output. Ignored when WithLogger
// is also given.
func WithLogOutput(w io.Writer) ClientOption {
	return func(o *clientOptions) { o.logOutput = w }
}

// WithMetricsRegistry enables transport metrics on reg regardless of the
// config toggle.
func WithMetricsRegistry(reg prometheus.Registerer) ClientOption {
	return func(o *clientOptions) { o.metricsReg = reg }
}

// WithTransportOptions forwards extra options to the HTTP transport.
func WithTransportOptions(opts ...transport.Option) ClientOption {
	return func(o *clientOptions) { o.transportOp = append(o.transportOp, opts...) }
}

// New builds a Client whose payment and invoice metadata is parsed through
// the given validator.
func New[T any](cfg *Config, v metadata.Validator[T], opts ...ClientOption) (*Client[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var logger zerolog.Logger
	if o.logger != nil {
		logger = *o.logger
	} else {
		logger = observability.InitLogger(cfg.Observability.LogLevel, o.logOutput)
	}

	tr := o.transport
	if tr == nil {
		transportOpts := []transport.Option{
			transport.WithLogger(logger),
			transport.WithTimeout(cfg.Timeout),
			transport.WithRetryConfig(transport.RetryConfig{
				MaxAttempts:  cfg.Retry.MaxAttempts,
				InitialDelay: cfg.Retry.InitialDelay,
				MaxDelay:     cfg.Retry.MaxDelay,
			}),
			transport.WithBreakerConfig(transport.BreakerConfig{
				FailureRatio: cfg.Breaker.FailureRatio,
				MinRequests:  cfg.Breaker.MinRequests,
				Interval:     cfg.Breaker.Interval,
				Timeout:      cfg.Breaker.Timeout,
			}),
		}
		if o.metricsReg != nil {
			transportOpts = append(transportOpts, transport.WithMetrics(cfg.Observability.MetricNamespace, o.metricsReg))
		} else if cfg.Observability.EnableMetrics {
			transportOpts = append(transportOpts, transport.WithMetrics(cfg.Observability.MetricNamespace, nil))
		}
		transportOpts = append(transportOpts, o.transportOp...)
		tr = transport.NewHTTP(cfg.BaseURL, cfg.APIKey, transportOpts...)
	}

	emitter := webhook.NewEmitter[T](logger)

	return &Client[T]{
		Payments: payment.NewService(tr, v, logger),
		Invoices: invoice.NewService(tr, v, logger),
		Webhooks: webhook.NewService(tr, logger),
		Pipeline: webhook.NewPipeline(v, emitter, logger),
		logger:   logger,
	}, nil
}

// NewDefault builds a Client that keeps metadata as a plain string map.
func NewDefault(cfg *Config, opts ...ClientOption) (*Client[map[string]string], error) {
	return New(cfg, metadata.Identity(), opts...)
}

// Logger exposes the client's root logger for callers that want to share it.
func (c *Client[T]) Logger() zerolog.Logger { return c.logger }
