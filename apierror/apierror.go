// Package apierror defines the error taxonomy shared by every layer of the
// client: transport failures, request validation failures, response parse
// failures, and the three webhook ingestion failure classes.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Type classifies an error for callers that map failures to HTTP-like codes.
type Type string

const (
	TypeNetwork           Type = "network"
	TypeInvalidRequest    Type = "invalid_request"
	TypeAuthentication    Type = "authentication"
	TypeForbidden         Type = "forbidden"
	TypeNotFound          Type = "not_found"
	TypeRateLimited       Type = "rate_limited"
	TypeServer            Type = "server"
	TypeResponseParse     Type = "response_parse"
	TypeRequestValidation Type = "request_validation"
	TypeWebhookStructural Type = "webhook_structural"
	TypeWebhookAuth       Type = "webhook_authentication"
	TypeWebhookMetadata   Type = "webhook_metadata"
)

var (
	ErrEmptySecret     = errors.New("shared secret is empty")
	ErrUnknownResource = errors.New("resource not found")
)

// TransportError is produced by the transport collaborator for network and
// HTTP-status failures. The core never retries it; retry policy belongs to
// the transport itself.
type TransportError struct {
	Type       Type
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TypeForStatus maps an HTTP status code to an error type.
func TypeForStatus(status int) Type {
	switch {
	case status == http.StatusBadRequest:
		return TypeInvalidRequest
	case status == http.StatusUnauthorized:
		return TypeAuthentication
	case status == http.StatusForbidden:
		return TypeForbidden
	case status == http.StatusNotFound:
		return TypeNotFound
	case status == http.StatusTooManyRequests:
		return TypeRateLimited
	case status >= 500:
		return TypeServer
	default:
		return TypeInvalidRequest
	}
}

// RequestValidationError reports every schema violation of a caller-supplied
// request at once. Always recoverable locally by fixing the input.
type RequestValidationError struct {
	Errors []string
}

func (e *RequestValidationError) Error() string {
	return "request validation failed: " + strings.Join(e.Errors, "; ")
}

func NewRequestValidationError(errs []string) *RequestValidationError {
	return &RequestValidationError{Errors: errs}
}

// ResponseParseError means the gateway reply does not match the expected
// contract. Fatal to the calling operation; never coerced.
type ResponseParseError struct {
	Message string
	Body    []byte
	Err     error
}

func (e *ResponseParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response parse failed: %s: %v", e.Message, e.Err)
	}
	return "response parse failed: " + e.Message
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

func NewResponseParseError(message string, body []byte, err error) *ResponseParseError {
	return &ResponseParseError{Message: message, Body: body, Err: err}
}

// WebhookStructuralError aggregates the structural violations of an inbound
// webhook payload (missing fields, unknown event type, malformed JSON).
type WebhookStructuralError struct {
	Violations []string
}

func (e *WebhookStructuralError) Error() string {
	return "webhook payload invalid: " + strings.Join(e.Violations, "; ")
}

// WebhookAuthenticationError means the payload secret did not match the
// expected shared secret. Distinct from structural failures since it
// indicates a potentially adversarial payload rather than a malformed one.
type WebhookAuthenticationError struct {
	Message string
}

func (e *WebhookAuthenticationError) Error() string {
	return "webhook authentication failed: " + e.Message
}

// WebhookMetadataError means the injected metadata validator rejected the
// payload's metadata. Payload holds the original, pre-validation delivery
// bytes for debugging.
type WebhookMetadataError struct {
	Payload []byte
	Err     error
}

func (e *WebhookMetadataError) Error() string {
	return fmt.Sprintf("webhook metadata invalid: %v", e.Err)
}

func (e *WebhookMetadataError) Unwrap() error { return e.Err }

// OpError wraps a lower-level error with the resource and operation that
// produced it, preserving the original classification through Unwrap.
type OpError struct {
	Resource string
	Op       string
	Err      error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Resource, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// WrapOp attaches a resource/operation prefix to err. A nil err stays nil.
func WrapOp(resource, op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Resource: resource, Op: op, Err: err}
}

// StatusOf maps any classified error to a consistent HTTP-like status code,
// regardless of the status the transport actually observed.
func StatusOf(err error) int {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.Type {
		case TypeNetwork:
			return http.StatusBadGateway
		case TypeAuthentication:
			return http.StatusUnauthorized
		case TypeForbidden:
			return http.StatusForbidden
		case TypeNotFound:
			return http.StatusNotFound
		case TypeRateLimited:
			return http.StatusTooManyRequests
		case TypeServer:
			return http.StatusBadGateway
		default:
			return http.StatusBadRequest
		}
	}

	var requestErr *RequestValidationError
	if errors.As(err, &requestErr) {
		return http.StatusBadRequest
	}
	var structuralErr *WebhookStructuralError
	if errors.As(err, &structuralErr) {
		return http.StatusBadRequest
	}
	var authErr *WebhookAuthenticationError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	var metadataErr *WebhookMetadataError
	if errors.As(err, &metadataErr) {
		return http.StatusUnprocessableEntity
	}
	var parseErr *ResponseParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// TypeOf returns the taxonomy type of a classified error, or "" when the
// error carries no classification.
func TypeOf(err error) Type {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Type
	}
	var requestErr *RequestValidationError
	if errors.As(err, &requestErr) {
		return TypeRequestValidation
	}
	var parseErr *ResponseParseError
	if errors.As(err, &parseErr) {
		return TypeResponseParse
	}
	var structuralErr *WebhookStructuralError
	if errors.As(err, &structuralErr) {
		return TypeWebhookStructural
	}
	var authErr *WebhookAuthenticationError
	if errors.As(err, &authErr) {
		return TypeWebhookAuth
	}
	var metadataErr *WebhookMetadataError
	if errors.As(err, &metadataErr) {
		return TypeWebhookMetadata
	}
	return ""
}
