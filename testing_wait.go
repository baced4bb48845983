package beaglesecurity

import (
	"context"

	"github.com/beaglesecurity/client-go/internal/poll"
)

// statusChanged reports whether next differs from the last observed status.
func statusChanged(last, next *TestStatus) bool {
	return last == nil || next.Status != last.Status || next.Progress != last.Progress
}

// WaitForCompletion polls the test until it reaches a terminal state and
// returns the final status. The polling interval backs off while the
// status is unchanged; tune it with WithPollInterval and
// WithMaxPollInterval. WithWaitTimeout bounds the wait, WithProgress
// observes every status change.
func (t *Test) WaitForCompletion(ctx context.Context, opts ...WaitOption) (*TestStatus, error) {
	cfg := &watchConfig{
		pollInterval: defaultPollInterval,
		maxInterval:  defaultPollMax,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	backoff := &poll.Backoff{Initial: cfg.pollInterval, Max: cfg.maxInterval}

	var last *TestStatus
	for {
		status, err := t.Status(ctx)
		if err != nil {
			return nil, err
		}

		changed := statusChanged(last, status)
		if changed && cfg.onProgress != nil {
			cfg.onProgress(status)
		}
		last = status

		if status.Finished() {
			return status, nil
		}

		if err := backoff.Wait(ctx, changed); err != nil {
			return nil, err
		}
	}
}

// Watch polls the test and streams every observed status change on the
// returned channel. The stream ends when the test reaches a terminal state
// or the context is cancelled. The channel is not closed on cancellation;
// use a select on ctx.Done() to detect it.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
//	defer cancel()
//
//	ch := test.Watch(ctx)
//	for {
//	    select {
//	    case <-ctx.Done():
//	        return
//	    case status := <-ch:
//	        fmt.Printf("%s %d%%\n", status.Status, status.Progress)
//	        if status.Finished() {
//	            return
//	        }
//	    }
//	}
func (t *Test) Watch(ctx context.Context, opts ...WaitOption) <-chan *TestStatus {
	cfg := &watchConfig{
		pollInterval: defaultPollInterval,
		maxInterval:  defaultPollMax,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ch := make(chan *TestStatus, 16)

	go func() {
		backoff := &poll.Backoff{Initial: cfg.pollInterval, Max: cfg.maxInterval}
		var last *TestStatus
		for {
			status, err := t.Status(ctx)
			if err != nil {
				// Transient failures keep the watch alive. A done context
				// ends it.
				if ctx.Err() != nil {
					return
				}
				if backoff.Wait(ctx, false) != nil {
					return
				}
				continue
			}

			changed := statusChanged(last, status)
			last = status
			if changed {
				select {
				case ch <- status:
				default:
					// Buffer full, drop: the next poll delivers a fresher status.
				}
			}

			if status.Finished() {
				return
			}
			if backoff.Wait(ctx, changed) != nil {
				return
			}
		}
	}()

	return ch
}
