package beaglesecurity

import (
	"context"
	"fmt"

	"github.com/beaglesecurity/client-go/internal/api"
)

// TestState represents the lifecycle state of a test session.
type TestState string

const (
	// TestRunning means the test is still executing.
	TestRunning TestState = "running"
	// TestCompleted means the test finished and results are available.
	TestCompleted TestState = "completed"
	// TestFailed means the platform aborted the test.
	TestFailed TestState = "failed"
	// TestStopped means the test was stopped on request.
	TestStopped TestState = "stopped"
)

// TestStatus is a point-in-time view of a test session.
type TestStatus struct {
	Status TestState
	// Progress is the completion percentage, 0 to 100.
	Progress int
}

// Finished reports whether the test reached a terminal state.
func (s *TestStatus) Finished() bool {
	switch s.Status {
	case TestCompleted, TestFailed, TestStopped:
		return true
	default:
		return false
	}
}

// TestConfig tunes a test started with StartTest. A nil config starts the
// platform's default scan.
type TestConfig struct {
	// ScanType selects the platform scan profile.
	ScanType string
	// Description labels the session in the test history.
	Description string
	// MaxDuration caps how long the test may run before the platform stops
	// it. Zero applies the platform default.
	MaxDuration int
}

// Test is a handle on one test session of an application.
type Test struct {
	// ApplicationToken identifies the application under test.
	ApplicationToken string
	// ResultToken identifies this test session. Empty selects the
	// application's latest session where the API allows it.
	ResultToken string

	client *Client
}

func (t *Test) api() (*api.Client, error) {
	if t.client == nil {
		return nil, fmt.Errorf("test handle is not attached to a client; use Client.Test")
	}
	return t.client.api()
}

// StartTest launches a security test against the application and returns a
// handle on the new session.
func (a *Application) StartTest(ctx context.Context, cfg *TestConfig) (*Test, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	var req *api.StartTestRequest
	if cfg != nil {
		req = &api.StartTestRequest{
			ScanType:    cfg.ScanType,
			Description: cfg.Description,
			MaxDuration: cfg.MaxDuration,
		}
	}

	started, err := apiClient.StartTest(ctx, a.Token, req)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Test{
		ApplicationToken: a.Token,
		ResultToken:      started.ResultToken,
		client:           a.client,
	}, nil
}

// Status fetches the test's current state and progress.
func (t *Test) Status(ctx context.Context) (*TestStatus, error) {
	apiClient, err := t.api()
	if err != nil {
		return nil, err
	}

	status, err := apiClient.GetTestStatus(ctx, t.ApplicationToken, t.ResultToken)
	if err != nil {
		return nil, wrapError(err)
	}
	return &TestStatus{Status: TestState(status.Status), Progress: status.Progress}, nil
}

// Stop halts the test. The session keeps any findings collected so far.
func (t *Test) Stop(ctx context.Context) error {
	apiClient, err := t.api()
	if err != nil {
		return err
	}
	_, err = apiClient.StopTest(ctx, t.ApplicationToken, t.ResultToken)
	return wrapError(err)
}

// Pause suspends the test. Resume continues it.
func (t *Test) Pause(ctx context.Context) error {
	apiClient, err := t.api()
	if err != nil {
		return err
	}
	_, err = apiClient.PauseTest(ctx, t.ApplicationToken, t.ResultToken)
	return wrapError(err)
}

// Resume continues a paused test.
func (t *Test) Resume(ctx context.Context) error {
	apiClient, err := t.api()
	if err != nil {
		return err
	}
	_, err = apiClient.ResumeTest(ctx, t.ApplicationToken, t.ResultToken)
	return wrapError(err)
}

// Sessions lists the application's test history. Page with WithPage and
// WithPageSize.
func (a *Application) Sessions(ctx context.Context, opts ...ListOption) ([]*TestSession, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	cfg := &listConfig{count: 20}
	for _, opt := range opts {
		opt(cfg)
	}

	sessions, err := apiClient.ListTestSessions(ctx, a.Token, cfg.page, cfg.count)
	if err != nil {
		return nil, wrapError(err)
	}

	result := make([]*TestSession, 0, len(sessions))
	for i := range sessions {
		result = append(result, &sessions[i])
	}
	return result, nil
}
