package beaglesecurity

import (
	"context"
	"os"
	"sync"

	"github.com/beaglesecurity/client-go/internal/api"
)

// Version is the release version of this SDK, reported in the default
// User-Agent header.
const Version = "1.2.0"

// EnvToken is the environment variable NewFromEnv reads the API token from.
const EnvToken = "BEAGLE_API_TOKEN"

// Client is the entry point to the Beagle Security API.
//
// A Client is safe for concurrent use. Construction performs no network
// calls; the first API call surfaces any credential problem as an
// AuthenticationError.
type Client struct {
	apiClient *api.Client

	mu     sync.RWMutex
	closed bool
}

// New creates a new Beagle Security client with the given API token.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &clientConfig{
		baseURL:    defaultBaseURL,
		maxRetries: -1, // keep transport default unless set
		userAgent:  "beagle-client-go/" + Version,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(token, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient}, nil
}

// NewFromEnv creates a client with the API token from the BEAGLE_API_TOKEN
// environment variable.
func NewFromEnv(opts ...Option) (*Client, error) {
	return New(os.Getenv(EnvToken), opts...)
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(token string, cfg *clientConfig) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
		api.WithUserAgent(cfg.userAgent),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.backoffBase > 0 || cfg.backoffMax > 0 {
		retry := api.DefaultRetryConfig()
		if cfg.backoffBase > 0 {
			retry.BaseDelay = cfg.backoffBase
		}
		if cfg.backoffMax > 0 {
			retry.MaxDelay = cfg.backoffMax
		}
		apiOpts = append(apiOpts, api.WithRetryConfig(retry))
	}
	if cfg.maxRetries >= 0 {
		apiOpts = append(apiOpts, api.WithMaxRetries(cfg.maxRetries))
	}

	apiClient, err := api.New(token, apiOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	return apiClient, nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// api returns the transport, or an error when the client is closed.
func (c *Client) api() (*api.Client, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.apiClient, nil
}

// Project returns a handle for the given project key. No network call is
// made; the handle carries only the key until populated by an API call.
func (c *Client) Project(key string) *Project {
	return &Project{Key: key, client: c}
}

// Application returns a handle for the given application token. No network
// call is made.
func (c *Client) Application(token string) *Application {
	return &Application{Token: token, client: c}
}

// Test returns a handle for a known test session.
func (c *Client) Test(applicationToken, resultToken string) *Test {
	return &Test{ApplicationToken: applicationToken, ResultToken: resultToken, client: c}
}

// Account returns the account-wide metrics surface.
func (c *Client) Account() *Account {
	return &Account{client: c}
}

// Ping verifies the token by listing projects. Returns nil when the API
// accepts the credentials.
func (c *Client) Ping(ctx context.Context) error {
	apiClient, err := c.api()
	if err != nil {
		return err
	}
	_, err = apiClient.ListProjects(ctx, "")
	return wrapError(err)
}

// Close marks the client closed and releases idle connections. Further
// calls return ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.apiClient.CloseIdleConnections()
	return nil
}
