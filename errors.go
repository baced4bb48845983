package beaglesecurity

import (
	"errors"
	"fmt"
	"time"

	"github.com/beaglesecurity/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no API token is provided.
	ErrMissingToken = errors.New("API token is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrAuthentication is returned when the API token is invalid or lacks access.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when the API rejects request parameters.
	ErrValidation = errors.New("request validation failed")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is returned when the API fails with a 5xx status.
	ErrServer = errors.New("server error")

	// ErrSignatureInvalid is returned when webhook signature verification fails.
	ErrSignatureInvalid = errors.New("signature verification failed")
)

// BeagleError is implemented by all SDK errors.
type BeagleError interface {
	error
	BeagleError() // marker method
}

// AuthenticationError indicates the API rejected the bearer token (HTTP 401)
// or refused access to the resource (HTTP 403).
type AuthenticationError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s %s: authentication failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// BeagleError implements the BeagleError interface.
func (e *AuthenticationError) BeagleError() {}

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// NotFoundError indicates the requested resource does not exist (HTTP 404).
type NotFoundError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// BeagleError implements the BeagleError interface.
func (e *NotFoundError) BeagleError() {}

// Is implements errors.Is for sentinel error matching.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError indicates the API rejected the request payload or
// parameters (HTTP 400 or 422). Fields holds per-field messages when the
// server provides them.
type ValidationError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: validation failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// BeagleError implements the BeagleError interface.
func (e *ValidationError) BeagleError() {}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RateLimitError indicates the API rate limit was still exceeded after all
// retries (HTTP 429). RetryAfter holds the server's hint from the final
// response, when one was sent.
type RateLimitError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s %s: rate limit exceeded (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// BeagleError implements the BeagleError interface.
func (e *RateLimitError) BeagleError() {}

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// APIError is the catch-all for server errors that persist after all
// retries (HTTP 5xx) and any other status without a dedicated type.
// Body holds the raw response body.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	kind := "unexpected status"
	if e.StatusCode >= 500 {
		kind = "server error"
	}
	return fmt.Sprintf("%s %s: %s (status %d): %s", e.Method, e.Path, kind, e.StatusCode, e.Message)
}

// BeagleError implements the BeagleError interface.
func (e *APIError) BeagleError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return target == ErrServer && e.StatusCode >= 500
}

// TransportError indicates the request never produced an HTTP response:
// connection failures, DNS errors, attempt timeouts, or a canceled context.
// Attempts counts how many times the request was sent.
type TransportError struct {
	Method   string
	Path     string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed after %d attempt(s): %v", e.Method, e.Path, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// BeagleError implements the BeagleError interface.
func (e *TransportError) BeagleError() {}

// DecodeError indicates a successful response body could not be decoded
// into the expected shape.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decoding response: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// BeagleError implements the BeagleError interface.
func (e *DecodeError) BeagleError() {}

// SignatureVerificationError indicates a webhook payload failed signature
// verification and must not be trusted.
type SignatureVerificationError struct {
	Message string
	Err     error
}

func (e *SignatureVerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signature verification failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("signature verification failed: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *SignatureVerificationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *SignatureVerificationError) Is(target error) bool {
	return target == ErrSignatureInvalid
}

// BeagleError implements the BeagleError interface.
func (e *SignatureVerificationError) BeagleError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var authErr *api.AuthenticationError
	if errors.As(err, &authErr) {
		return &AuthenticationError{
			StatusCode: authErr.StatusCode,
			Message:    authErr.Message,
			Method:     authErr.Method,
			Path:       authErr.Path,
		}
	}

	var notFoundErr *api.NotFoundError
	if errors.As(err, &notFoundErr) {
		return &NotFoundError{
			StatusCode: notFoundErr.StatusCode,
			Message:    notFoundErr.Message,
			Method:     notFoundErr.Method,
			Path:       notFoundErr.Path,
		}
	}

	var validationErr *api.ValidationError
	if errors.As(err, &validationErr) {
		return &ValidationError{
			StatusCode: validationErr.StatusCode,
			Message:    validationErr.Message,
			Method:     validationErr.Method,
			Path:       validationErr.Path,
			Fields:     validationErr.Fields,
		}
	}

	var rateLimitErr *api.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			StatusCode: rateLimitErr.StatusCode,
			Message:    rateLimitErr.Message,
			Method:     rateLimitErr.Method,
			Path:       rateLimitErr.Path,
			RetryAfter: rateLimitErr.RetryAfter,
		}
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Method:     apiErr.Method,
			Path:       apiErr.Path,
			Body:       apiErr.Body,
		}
	}

	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		return &TransportError{
			Method:   transportErr.Method,
			Path:     transportErr.Path,
			Attempts: transportErr.Attempts,
			Err:      transportErr.Err,
		}
	}

	var decodeErr *api.DecodeError
	if errors.As(err, &decodeErr) {
		return &DecodeError{
			Method: decodeErr.Method,
			Path:   decodeErr.Path,
			Err:    decodeErr.Err,
		}
	}

	return err
}
