// Package poll provides adaptive interval computation for status polling.
//
// The interval grows while the observed state is unchanged and resets to the
// initial value when a change is seen, with jitter to prevent thundering herd
// across many watchers.
package poll

import (
	"context"
	"math/rand"
	"time"
)

const (
	DefaultInitialInterval   = 2 * time.Second
	DefaultMaxInterval       = 30 * time.Second
	DefaultBackoffMultiplier = 1.5
	DefaultJitterFactor      = 0.3
)

// Backoff tracks the polling interval for one watch loop.
//
// The zero value uses the package defaults. A Backoff is not safe for
// concurrent use; each watch loop owns its own.
type Backoff struct {
	// Initial is the interval after a reset. Defaults to DefaultInitialInterval.
	Initial time.Duration
	// Max caps the grown interval. Defaults to DefaultMaxInterval.
	Max time.Duration
	// Multiplier grows the interval after an unchanged poll.
	// Defaults to DefaultBackoffMultiplier.
	Multiplier float64
	// Jitter is the random fraction added on top of the interval.
	// Defaults to DefaultJitterFactor.
	Jitter float64

	current time.Duration
}

func (b *Backoff) initial() time.Duration {
	if b.Initial > 0 {
		return b.Initial
	}
	return DefaultInitialInterval
}

func (b *Backoff) max() time.Duration {
	if b.Max > 0 {
		return b.Max
	}
	return DefaultMaxInterval
}

func (b *Backoff) multiplier() float64 {
	if b.Multiplier > 1 {
		return b.Multiplier
	}
	return DefaultBackoffMultiplier
}

func (b *Backoff) jitter() float64 {
	if b.Jitter > 0 {
		return b.Jitter
	}
	return DefaultJitterFactor
}

// Next returns the jittered wait before the next poll. changed reports
// whether the last poll observed a state change; a change resets the
// interval to Initial, otherwise it grows by Multiplier up to Max.
func (b *Backoff) Next(changed bool) time.Duration {
	if changed || b.current == 0 {
		b.current = b.initial()
	} else {
		grown := time.Duration(float64(b.current) * b.multiplier())
		if grown > b.max() {
			grown = b.max()
		}
		b.current = grown
	}

	jitter := time.Duration(rand.Float64() * b.jitter() * float64(b.current))
	return b.current + jitter
}

// Reset restores the interval to Initial for the next poll.
func (b *Backoff) Reset() {
	b.current = 0
}

// Interval returns the current interval without jitter.
func (b *Backoff) Interval() time.Duration {
	if b.current == 0 {
		return b.initial()
	}
	return b.current
}

// Wait sleeps for Next(changed), aborting early if ctx is done.
func (b *Backoff) Wait(ctx context.Context, changed bool) error {
	timer := time.NewTimer(b.Next(changed))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
