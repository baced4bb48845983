package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL   = "https://api.beagle.security"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "beagle-client-go"
)

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	timeout    time.Duration
	retry      *RetryConfig
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the timeout applied to each request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRetries sets the number of retries after the initial attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.retry.MaxRetries = n
	}
}

// WithRetryConfig replaces the retry configuration.
func WithRetryConfig(rc *RetryConfig) Option {
	return func(c *Client) {
		if rc != nil {
			c.retry = rc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new API client.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		retry:      DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetHTTPClient sets a custom HTTP client. The per attempt timeout is
// still enforced through the request context.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// CloseIdleConnections closes idle connections held by the underlying
// HTTP client.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Request describes a single API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is the raw result of a call that reached a 2xx status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do executes an API request and decodes the JSON response into result.
// Pass a nil result to discard the response body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	resp, err := c.roundTrip(ctx, &Request{Method: method, Path: path, Query: query, Body: body})
	if err != nil {
		return err
	}
	if result == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return &DecodeError{Method: method, Path: path, Err: err}
	}
	return nil
}

// DoBinary executes an API request and returns the raw response for
// non-JSON payloads such as PDF reports.
func (c *Client) DoBinary(ctx context.Context, method, path string, query url.Values) (*Response, error) {
	return c.roundTrip(ctx, &Request{Method: method, Path: path, Query: query})
}

// roundTrip sends the request, retrying transport failures, rate limits
// and server errors with exponential backoff until the retry budget is
// spent. The request body is marshaled once and replayed on every
// attempt, and all attempts share one X-Request-ID.
func (c *Client) roundTrip(ctx context.Context, r *Request) (*Response, error) {
	var payload []byte
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	endpoint := c.baseURL + r.Path
	if len(r.Query) > 0 {
		endpoint += "?" + r.Query.Encode()
	}
	if _, err := http.NewRequest(r.Method, endpoint, nil); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()

	for attempt := 0; ; attempt++ {
		resp, err := c.attempt(ctx, r.Method, endpoint, requestID, payload)
		if err != nil {
			transportErr := &TransportError{Method: r.Method, Path: r.Path, Attempts: attempt + 1, Err: err}
			if ctx.Err() != nil || attempt >= c.retry.MaxRetries {
				return nil, transportErr
			}
			if werr := c.retry.Wait(ctx, attempt, 0); werr != nil {
				return nil, &TransportError{Method: r.Method, Path: r.Path, Attempts: attempt + 1, Err: werr}
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		classified := classifyResponse(r.Method, r.Path, resp)
		if !c.retry.ShouldRetry(attempt, resp.StatusCode) {
			return nil, classified
		}
		hint, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		if werr := c.retry.Wait(ctx, attempt, hint); werr != nil {
			return nil, &TransportError{Method: r.Method, Path: r.Path, Attempts: attempt + 1, Err: werr}
		}
	}
}

// attempt performs one HTTP round trip under the per attempt timeout and
// drains the response body before the deadline is released.
func (c *Client) attempt(ctx context.Context, method, endpoint, requestID string, payload []byte) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
