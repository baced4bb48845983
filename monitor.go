package beaglesecurity

import (
	"context"
	"sync"
)

// Subscription represents an active subscription that can be unsubscribed.
type Subscription interface {
	// Unsubscribe stops the subscription and releases resources.
	Unsubscribe()
}

// StatusCallback is called when a monitored test reports a status change.
type StatusCallback func(test *Test, status *TestStatus)

// TestMonitor observes multiple running tests and fans status changes out
// to registered callbacks. It provides an event-emitter like pattern over
// the per-test polling done by Test.Watch.
type TestMonitor struct {
	client    *Client
	tests     []*Test
	callbacks []StatusCallback
	mu        sync.RWMutex
	started   bool
	cancel    context.CancelFunc
}

// internalSubscription implements the Subscription interface.
type internalSubscription struct {
	cancel func()
}

func (s *internalSubscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// MonitorTests creates a monitor for the given tests. Monitoring starts
// when the first callback is registered with OnStatus.
func (c *Client) MonitorTests(tests ...*Test) *TestMonitor {
	return &TestMonitor{
		client:    c,
		tests:     tests,
		callbacks: make([]StatusCallback, 0),
	}
}

// OnStatus registers a callback to be called when any monitored test
// reports a status change. Returns a Subscription that can be used to
// unsubscribe this specific callback.
func (m *TestMonitor) OnStatus(callback StatusCallback) Subscription {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, callback)
	callbackIndex := len(m.callbacks) - 1
	m.mu.Unlock()

	// Start monitoring if not already started
	m.startMonitoring()

	return &internalSubscription{
		cancel: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// Mark this callback as nil (don't remove to preserve indices)
			if callbackIndex < len(m.callbacks) {
				m.callbacks[callbackIndex] = nil
			}
		},
	}
}

// Unsubscribe stops monitoring all tests and releases all resources.
func (m *TestMonitor) Unsubscribe() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.callbacks = nil
	m.started = false
}

// startMonitoring begins the monitoring process if not already started.
func (m *TestMonitor) startMonitoring() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	// One watcher per test. Each ends when its test finishes or the
	// monitor is unsubscribed.
	for _, test := range m.tests {
		testRef := test // capture for closure
		go func() {
			ch := testRef.Watch(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case status := <-ch:
					m.emitStatus(testRef, status)
					if status.Finished() {
						return
					}
				}
			}
		}()
	}
}

// emitStatus calls all registered callbacks with the status change.
func (m *TestMonitor) emitStatus(test *Test, status *TestStatus) {
	m.mu.RLock()
	callbacks := make([]StatusCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.RUnlock()

	// Low volume expected; spawning per-change is fine.
	for _, callback := range callbacks {
		if callback != nil {
			go callback(test, status)
		}
	}
}
