package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/internal/observability"
)

// RetryConfig controls the transport's exponential backoff retry.
type RetryConfig struct {
	MaxAttempts  uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryConfig returns the default retry settings.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	}
}

// BreakerConfig controls when the circuit breaker opens.
type BreakerConfig struct {
	FailureRatio float64
	MinRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureRatio: 0.6,
		MinRequests:  10,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
	}
}

// HTTP is the production Transport: one gateway request per call with
// basic-auth credentials, bounded retries for transient failures, a
// circuit breaker, and per-request metrics, tracing and logging.
type HTTP struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
	retry   RetryConfig
	brkCfg  BreakerConfig
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
	metrics *observability.Metrics
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// Option customizes the HTTP transport.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// WithTimeout caps the duration of each HTTP exchange, including retries'
// individual attempts. Applied on top of the client set by WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) { h.timeout = d }
}

// WithRetryConfig replaces the retry settings.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(h *HTTP) { h.retry = cfg }
}

// WithBreakerConfig replaces the circuit breaker settings.
func WithBreakerConfig(cfg BreakerConfig) Option {
	return func(h *HTTP) { h.brkCfg = cfg }
}

// WithLogger sets the transport logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *HTTP) { h.logger = logger }
}

// WithMetrics registers and enables transport metrics on reg. A nil reg
// uses the default prometheus registerer.
func WithMetrics(namespace string, reg prometheus.Registerer) Option {
	return func(h *HTTP) { h.metrics = observability.NewMetrics(namespace, reg) }
}

// NewHTTP builds a transport against baseURL authenticated with the secret
// API key.
func NewHTTP(baseURL, apiKey string, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry:   DefaultRetryConfig(),
		brkCfg:  DefaultBreakerConfig(),
		logger:  zerolog.Nop(),
		tracer:  otel.Tracer("gopay/transport"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.timeout > 0 {
		// Copy so a caller-supplied client is not mutated.
		c := *h.client
		c.Timeout = h.timeout
		h.client = &c
	}

	h.breaker = gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        "gateway",
		MaxRequests: 10,
		Interval:    h.brkCfg.Interval,
		Timeout:     h.brkCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= h.brkCfg.MinRequests && failureRatio >= h.brkCfg.FailureRatio
		},
		// Client-side rejections must not open the breaker; only network
		// and server failures count.
		IsSuccessful: func(err error) bool {
			return err == nil || !isRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			h.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
			if h.metrics != nil {
				h.metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			}
		},
	})
	return h
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Request implements Transport.
func (h *HTTP) Request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	requestID := uuid.NewString()

	ctx, span := h.tracer.Start(ctx, "gopay.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("request.id", requestID),
	))
	defer span.End()

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, &apierror.TransportError{
				Type:    apierror.TypeInvalidRequest,
				Message: "request body is not JSON-encodable",
				Err:     err,
			}
		}
	}

	start := time.Now()
	result, err := h.breaker.Execute(func() (json.RawMessage, error) {
		return retry.DoWithData(
			func() (json.RawMessage, error) {
				return h.do(ctx, method, path, query, encoded, requestID)
			},
			retry.Context(ctx),
			retry.Attempts(h.retry.MaxAttempts),
			retry.Delay(h.retry.InitialDelay),
			retry.MaxDelay(h.retry.MaxDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(isRetryable),
			retry.OnRetry(func(n uint, err error) {
				h.logger.Warn().Uint("attempt", n+1).Str("path", path).Err(err).Msg("retrying gateway request")
				if h.metrics != nil {
					h.metrics.RequestRetries.WithLabelValues(path).Inc()
				}
			}),
		)
	})

	if h.metrics != nil {
		h.metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		err = classifyBreakerError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Error().Str("method", method).Str("path", path).Str("request_id", requestID).
			Err(err).Msg("gateway request failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return result, nil
}

// do performs one HTTP exchange and maps the outcome.
func (h *HTTP) do(ctx context.Context, method, path string, query url.Values, body []byte, requestID string) (json.RawMessage, error) {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &apierror.TransportError{Type: apierror.TypeNetwork, Message: "build request", Err: err}
	}
	req.SetBasicAuth(h.apiKey, "")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &apierror.TransportError{Type: apierror.TypeNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierror.TransportError{Type: apierror.TypeNetwork, Message: "read response body", Err: err}
	}

	if h.metrics != nil {
		h.metrics.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()
	}
	h.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Str("request_id", requestID).Msg("gateway request")

	if resp.StatusCode >= 400 {
		return nil, &apierror.TransportError{
			Type:       apierror.TypeForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody, resp.StatusCode),
			Body:       respBody,
		}
	}
	return respBody, nil
}

// errorMessage pulls the gateway's message out of an error body, falling
// back to the HTTP status text.
func errorMessage(body []byte, status int) string {
	var doc struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &doc); err == nil && doc.Message != "" {
		return doc.Message
	}
	return http.StatusText(status)
}

// isRetryable reports whether err is transient: a network failure, a
// server-side error, or a rate limit.
func isRetryable(err error) bool {
	var transportErr *apierror.TransportError
	if !errors.As(err, &transportErr) {
		return false
	}
	switch transportErr.Type {
	case apierror.TypeNetwork, apierror.TypeServer, apierror.TypeRateLimited:
		return true
	}
	return false
}

// classifyBreakerError converts breaker rejections into transport errors so
// callers see a single failure taxonomy.
func classifyBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &apierror.TransportError{
			Type:    apierror.TypeNetwork,
			Message: fmt.Sprintf("circuit breaker rejected request: %v", err),
			Err:     err,
		}
	}
	return err
}
