package beaglesecurity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient starts a test server and returns a client pointed at it.
// Retries are disabled unless the caller's options enable them.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL), WithMaxRetries(0)}, opts...)
	client, err := New("test-token", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("New() error = %v, want ErrMissingToken", err)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(EnvToken, "env-token")

	client, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	defer client.Close()
}

func TestNewFromEnv_Missing(t *testing.T) {
	t.Setenv(EnvToken, "")

	_, err := NewFromEnv()
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("NewFromEnv() error = %v, want ErrMissingToken", err)
	}
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer test-token")
		}
		if got := r.Header.Get("User-Agent"); got != "beagle-client-go/"+Version {
			t.Errorf("User-Agent = %q, want %q", got, "beagle-client-go/"+Version)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Write([]byte(`{"data":[]}`))
	}))

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
}

func TestClient_CustomUserAgent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "scanner/2.0" {
			t.Errorf("User-Agent = %q, want scanner/2.0", got)
		}
		w.Write([]byte(`{"data":[]}`))
	}), WithUserAgent("scanner/2.0"))

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v3/projects" {
			t.Errorf("path = %s, want /rest/v3/projects", r.URL.Path)
		}
		w.Write([]byte(`{"data":[]}`))
	}))

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestClient_Ping_BadToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))

	err := client.Ping(context.Background())
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("Ping() error = %v, want ErrAuthentication", err)
	}
	if err != nil && !strings.Contains(err.Error(), "invalid token") {
		t.Errorf("Ping() error %q should carry the server message", err)
	}
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := client.Ping(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Ping() after Close error = %v, want ErrClientClosed", err)
	}

	// Handles created earlier fail the same way.
	app := client.Application("app-token")
	if err := app.Refresh(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Refresh() after Close error = %v, want ErrClientClosed", err)
	}

	// Closing again is a no-op.
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestClient_RetriesThroughOptions(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}), WithMaxRetries(2), WithBackoff(time.Millisecond, 5*time.Millisecond))

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestClient_RetriesDisabled(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListProjects(context.Background())
	if !errors.Is(err, ErrServer) {
		t.Fatalf("ListProjects() error = %v, want ErrServer", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestClient_Handles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	if p := client.Project("PRJ-1"); p.Key != "PRJ-1" {
		t.Errorf("Project().Key = %q, want PRJ-1", p.Key)
	}
	if a := client.Application("app-token"); a.Token != "app-token" {
		t.Errorf("Application().Token = %q, want app-token", a.Token)
	}
	test := client.Test("app-token", "result-token")
	if test.ApplicationToken != "app-token" || test.ResultToken != "result-token" {
		t.Errorf("Test() = %+v, want tokens app-token/result-token", test)
	}
	if client.Account() == nil {
		t.Error("Account() = nil")
	}
}

func TestDetachedHandles(t *testing.T) {
	ctx := context.Background()

	if err := (&Project{Key: "PRJ-1"}).Delete(ctx); err == nil {
		t.Error("detached Project call should return error")
	}
	if _, err := (&Application{Token: "tok"}).LatestResult(ctx); err == nil {
		t.Error("detached Application call should return error")
	}
	if _, err := (&Test{ApplicationToken: "tok"}).Status(ctx); err == nil {
		t.Error("detached Test call should return error")
	}
	if _, err := (&Account{}).RunningSessions(ctx); err == nil {
		t.Error("detached Account call should return error")
	}
}
