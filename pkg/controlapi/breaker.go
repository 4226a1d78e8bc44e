package controlapi

import (
	"sync"
	"time"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	// BreakerHalfOpen admits a single probe request at a time.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker stops commands from reaching a control API that keeps failing.
//
// After maxFailures consecutive failures it rejects every request for the
// recovery period. Then one probe is let through; closeAfter successful
// probes close it again and a failed probe reopens it for another period.
// Only transport errors and 5xx responses should be recorded as failures.
type Breaker struct {
	maxFailures int
	closeAfter  int
	recovery    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failed   int
	probed   int
	probing  bool
	openedAt time.Time
}

// NewBreaker creates a Breaker. Non-positive arguments fall back to 5
// failures, 1 successful probe and a 30s recovery period.
func NewBreaker(maxFailures, closeAfter int, recovery time.Duration) *Breaker {
	return &Breaker{
		maxFailures: positiveOr(maxFailures, 5),
		closeAfter:  positiveOr(closeAfter, 1),
		recovery:    positiveDurationOr(recovery, 30*time.Second),
		now:         time.Now,
	}
}

// Allow reports whether a request may be sent now. A true result while the
// breaker is recovering reserves the probe slot, which the caller must free
// with RecordSuccess, RecordFailure or Release.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.recovered() {
		b.state = BreakerHalfOpen
		b.probed = 0
	}

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return false
	}
}

// RecordSuccess records a request that reached a healthy API.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	switch b.state {
	case BreakerClosed:
		b.failed = 0
	case BreakerHalfOpen:
		if b.probed++; b.probed >= b.closeAfter {
			b.state = BreakerClosed
			b.failed = 0
		}
	}
}

// RecordFailure records a request that found the API unavailable.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	switch b.state {
	case BreakerClosed:
		if b.failed++; b.failed >= b.maxFailures {
			b.trip()
		}
	case BreakerHalfOpen:
		b.trip()
	}
}

// Release frees a reserved probe slot without judging the API, for requests
// abandoned by their caller.
func (b *Breaker) Release() {
	b.mu.Lock()
	b.probing = false
	b.mu.Unlock()
}

// State returns the current state as Allow would see it.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.recovered() {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.probed = 0
}

func (b *Breaker) recovered() bool {
	return b.now().Sub(b.openedAt) >= b.recovery
}

func positiveOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func positiveDurationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
