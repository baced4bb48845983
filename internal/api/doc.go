// Package api provides HTTP client functionality for communicating with the
// Beagle Security REST API. It handles bearer token authentication,
// request/response serialization, and automatic retry logic with exponential
// backoff for transient failures.
//
// # Client Creation
//
// Create a client with [New] and functional options. The API token is sent
// via the Authorization header as a bearer token on every request, and each
// logical call carries one X-Request-ID across all of its retry attempts.
//
// # Retry Behavior
//
// The client automatically retries failed requests with exponential backoff
// and jitter. By default, requests are retried up to 3 times for:
//
//   - connection failures, DNS errors, and attempt timeouts
//   - 429 Too Many Requests
//   - any 5xx server error
//
// Other client errors are never retried. For 429 responses the client honors
// the Retry-After header, in either delta seconds or HTTP date form, waiting
// the longer of the computed backoff and the server hint. Configure retry
// behavior with [RetryConfig].
//
// # Error Handling
//
// Non-2xx responses are converted to typed errors:
//
//   - [AuthenticationError]: rejected token or forbidden resource (401, 403).
//   - [NotFoundError]: resource does not exist (404).
//   - [ValidationError]: rejected payload or parameters (400, 422).
//   - [RateLimitError]: rate limit still exceeded after retries (429).
//   - [APIError]: persistent server errors and unexpected statuses.
//   - [TransportError]: the request never produced an HTTP response.
//   - [DecodeError]: a 2xx body that could not be decoded.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
