package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AuthenticationError is returned when the API rejects the bearer token
// (HTTP 401) or refuses access to the resource (HTTP 403).
type AuthenticationError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s %s: authentication failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// NotFoundError is returned when the requested resource does not exist
// (HTTP 404).
type NotFoundError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// ValidationError is returned when the API rejects the request payload or
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

// RateLimitError is returned when the API rate limit is still exceeded
// after all retries (HTTP 429). RetryAfter holds the server's hint from
// the final response, when one was sent.
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

// APIError is returned for server errors that persist after all retries
// (HTTP 5xx) and for any other status the client has no dedicated type
// for. Body holds the raw response body.
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

// TransportError is returned when the request never produced an HTTP
// response: connection failures, DNS errors, attempt timeouts, or a
// canceled context. Attempts counts how many times the request was sent.
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

// DecodeError is returned when a successful response body cannot be
// decoded into the expected shape. It is never retried.
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

// errorBody is the shape the API uses for error payloads.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// errorMessage extracts a readable message from an error response body.
// Falls back to the raw body text, then to the bare status code.
func errorMessage(statusCode int, body []byte) (string, map[string][]string) {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message, parsed.Errors
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		return fmt.Sprintf("HTTP %d: %s", statusCode, text), nil
	}
	return fmt.Sprintf("HTTP %d", statusCode), nil
}

// classifyResponse converts a non-2xx response into the error type that
// matches its status code.
func classifyResponse(method, path string, resp *Response) error {
	message, fields := errorMessage(resp.StatusCode, resp.Body)
	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return &AuthenticationError{StatusCode: resp.StatusCode, Message: message, Method: method, Path: path}
	case resp.StatusCode == 404:
		return &NotFoundError{StatusCode: resp.StatusCode, Message: message, Method: method, Path: path}
	case resp.StatusCode == 400 || resp.StatusCode == 422:
		return &ValidationError{StatusCode: resp.StatusCode, Message: message, Method: method, Path: path, Fields: fields}
	case resp.StatusCode == 429:
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &RateLimitError{StatusCode: resp.StatusCode, Message: message, Method: method, Path: path, RetryAfter: retryAfter}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: message, Method: method, Path: path, Body: resp.Body}
	}
}
