package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fastRetry returns a retry configuration that keeps test runs short.
func fastRetry(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	client, err := New("test-token", append([]Option{WithBaseURL(baseURL)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Error("expected error for empty API token")
	}
}

func TestNew_Defaults(t *testing.T) {
	client, err := New("test-token")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, defaultBaseURL)
	}
	if client.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", client.timeout, defaultTimeout)
	}
	if client.userAgent != defaultUserAgent {
		t.Errorf("userAgent = %s, want %s", client.userAgent, defaultUserAgent)
	}
	if client.retry.MaxRetries != 3 {
		t.Errorf("retry.MaxRetries = %d, want 3", client.retry.MaxRetries)
	}
}

func TestNew_WithOptions(t *testing.T) {
	client, err := New("test-token",
		WithBaseURL("https://example.com/"),
		WithTimeout(60*time.Second),
		WithMaxRetries(5),
		WithUserAgent("custom-agent/1.0"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.baseURL != "https://example.com" {
		t.Errorf("baseURL = %s, want https://example.com (trailing slash trimmed)", client.baseURL)
	}
	if client.timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", client.timeout)
	}
	if client.retry.MaxRetries != 5 {
		t.Errorf("retry.MaxRetries = %d, want 5", client.retry.MaxRetries)
	}
	if client.userAgent != "custom-agent/1.0" {
		t.Errorf("userAgent = %s, want custom-agent/1.0", client.userAgent)
	}
}

func TestClient_SetHTTPClient(t *testing.T) {
	client, err := New("test-token")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	custom := &http.Client{}
	client.SetHTTPClient(custom)
	if client.httpClient != custom {
		t.Error("SetHTTPClient() did not update the client")
	}
}

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %s, want Bearer test-token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %s, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got != defaultUserAgent {
			t.Errorf("User-Agent = %s, want %s", got, defaultUserAgent)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header is empty")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	var result struct{ OK bool }
	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, &result)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !result.OK {
		t.Error("result.OK = false, want true")
	}
}

func TestClient_Do_WithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", got)
		}
		var body struct{ Name string }
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body.Name != "test" {
			t.Errorf("body.Name = %s, want test", body.Name)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"received": body.Name})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	request := struct{ Name string }{Name: "test"}
	var result struct{ Received string }
	err := client.Do(context.Background(), http.MethodPost, "/test", nil, request, &result)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Received != "test" {
		t.Errorf("result.Received = %s, want test", result.Received)
	}
}

func TestClient_Do_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("application_token"); got != "tok-123" {
			t.Errorf("application_token = %s, want tok-123", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %s, want 2", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	query := url.Values{
		"application_token": {"tok-123"},
		"page":              {"2"},
	}
	if err := client.Do(context.Background(), http.MethodGet, "/test", query, nil, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestClient_Do_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if err := client.Do(context.Background(), http.MethodDelete, "/test", nil, nil, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestClient_Do_RetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&attempts, 1)
		if count < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(3)))

	var result struct{ OK bool }
	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, &result)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !result.OK {
		t.Error("result.OK = false, want true")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestClient_Do_NoRetryOn4xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "bad request"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(3)))

	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 4xx)", got)
	}
}

func TestClient_Do_ServerErrorExhaustsRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(2)))

	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "boom" {
		t.Errorf("Message = %q, want boom", apiErr.Message)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", got)
	}
}

func TestClient_Do_RateLimitExhaustsRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "slow down"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(1)))

	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("error type = %T, want *RateLimitError", err)
	}
	if rateErr.Message != "slow down" {
		t.Errorf("Message = %q, want slow down", rateErr.Message)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2 (initial + 1 retry)", got)
	}
}

func TestClient_Do_HonorsRetryAfterHint(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(2)))

	start := time.Now()
	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	// The computed backoff is a few milliseconds, so any wait close to
	// the hinted second proves the header was honored.
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 900ms from Retry-After hint", elapsed)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestClient_Do_MalformedRetryAfterFallsBack(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "not-a-duration")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(2)))

	start := time.Now()
	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("elapsed = %v, want fast computed backoff when hint is malformed", elapsed)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestClient_Do_RetryOnNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close() // Every connection now fails.

	client := newTestClient(t, addr, WithRetryConfig(fastRetry(2)))

	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error type = %T, want *TransportError", err)
	}
	if transportErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3 (initial + 2 retries)", transportErr.Attempts)
	}
}

func TestClient_Do_BodyReplayedOnRetry(t *testing.T) {
	var attempts int32
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()

		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(2)))

	body := map[string]string{"name": "retry-me"}
	err := client.Do(context.Background(), http.MethodPost, "/test", nil, body, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 {
		t.Fatalf("len(bodies) = %d, want 2", len(bodies))
	}
	if bodies[0] != bodies[1] {
		t.Errorf("retried body %q differs from original %q", bodies[1], bodies[0])
	}
	if bodies[0] != `{"name":"retry-me"}` {
		t.Errorf("body = %q, want full JSON payload", bodies[0])
	}
}

func TestClient_Do_RequestIDStableAcrossRetries(t *testing.T) {
	var attempts int32
	var mu sync.Mutex
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get("X-Request-ID"))
		mu.Unlock()

		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(3)))

	if err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	mu.Lock()
	firstCall := append([]string(nil), ids...)
	ids = ids[:0]
	mu.Unlock()

	if len(firstCall) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(firstCall))
	}
	if firstCall[0] == "" {
		t.Fatal("X-Request-ID is empty")
	}
	if firstCall[0] != firstCall[1] || firstCall[1] != firstCall[2] {
		t.Errorf("X-Request-ID changed across retries: %v", firstCall)
	}

	atomic.StoreInt32(&attempts, 10) // Next call succeeds immediately.
	if err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ids) != 1 {
		t.Fatalf("len(ids) = %d, want 1", len(ids))
	}
	if ids[0] == firstCall[0] {
		t.Error("X-Request-ID reused across separate calls")
	}
}

func TestClient_Do_DecodeErrorNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": `))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(fastRetry(3)))

	var result struct{ Name string }
	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, &result)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1 (decode failures are not retried)", got)
	}
}

func TestClient_Do_ContextCancellation(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryConfig(&RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Hour, // Only a canceled context can end the wait.
		MaxDelay:   time.Hour,
		Multiplier: 2.0,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := client.Do(ctx, http.MethodGet, "/test", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(err, context.Canceled) = false, err = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancellation took %v, want prompt abort", elapsed)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestClient_Do_PerAttemptTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL,
		WithTimeout(50*time.Millisecond),
		WithRetryConfig(fastRetry(1)),
	)

	err := client.Do(context.Background(), http.MethodGet, "/test", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for timed out attempts")
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error type = %T, want *TransportError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("errors.Is(err, context.DeadlineExceeded) = false, err = %v", err)
	}
	if transportErr.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2 (timeouts are retried)", transportErr.Attempts)
	}
}

func TestClient_DoBinary(t *testing.T) {
	pdf := []byte("%PDF-1.7 report bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.DoBinary(context.Background(), http.MethodGet, "/report", nil)
	if err != nil {
		t.Fatalf("DoBinary() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != string(pdf) {
		t.Errorf("Body = %q, want raw PDF bytes", resp.Body)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %s, want application/pdf", got)
	}
}
