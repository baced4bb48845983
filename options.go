package beaglesecurity

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL      = "https://api.beagle.security"
	defaultPollInterval = 2 * time.Second
	defaultPollMax      = 30 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration
	backoffMax  time.Duration
	userAgent   string
}

// listConfig holds filters for list calls.
type listConfig struct {
	page       int
	count      int
	search     string
	projectKey string
	importance string
}

// watchConfig holds configuration for waiting on test completion.
type watchConfig struct {
	pollInterval time.Duration
	maxInterval  time.Duration
	timeout      time.Duration
	onProgress   func(*TestStatus)
}

// Option configures the client.
type Option func(*clientConfig)

// ListOption filters list calls.
type ListOption func(*listConfig)

// WaitOption configures waiting on a running test.
type WaitOption func(*watchConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout applied to each request attempt.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets the number of retries after the initial attempt.
// Zero disables retries entirely.
// Default: 3
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = count
	}
}

// WithBackoff sets the base delay and ceiling for retry backoff.
// Zero values keep the defaults (500ms base, 30s ceiling).
func WithBackoff(base, max time.Duration) Option {
	return func(c *clientConfig) {
		c.backoffBase = base
		c.backoffMax = max
	}
}

// WithUserAgent replaces the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithSearch filters list results by a search term.
func WithSearch(query string) ListOption {
	return func(c *listConfig) {
		c.search = query
	}
}

// WithPage selects the zero-based result page.
// Default: 0
func WithPage(page int) ListOption {
	return func(c *listConfig) {
		c.page = page
	}
}

// WithPageSize sets how many results a page holds.
// Default: 20
func WithPageSize(count int) ListOption {
	return func(c *listConfig) {
		c.count = count
	}
}

// WithProjectKey filters applications by project.
func WithProjectKey(key string) ListOption {
	return func(c *listConfig) {
		c.projectKey = key
	}
}

// WithImportance filters applications by importance level.
func WithImportance(importance string) ListOption {
	return func(c *listConfig) {
		c.importance = importance
	}
}

// WithPollInterval sets the initial status polling interval.
// The interval backs off while the status is unchanged.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithMaxPollInterval caps the backed-off polling interval.
// Default: 30 seconds
func WithMaxPollInterval(interval time.Duration) WaitOption {
	return func(c *watchConfig) {
		c.maxInterval = interval
	}
}

// WithWaitTimeout bounds how long to wait for test completion.
// Zero waits until the caller's context is done.
// Default: no timeout
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *watchConfig) {
		c.timeout = timeout
	}
}

// WithProgress registers a callback invoked on every observed status change.
func WithProgress(fn func(*TestStatus)) WaitOption {
	return func(c *watchConfig) {
		c.onProgress = fn
	}
}
