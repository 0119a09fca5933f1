// Package circuit provides a small failure-counting circuit breaker used to
// shield sweeps from a misbehaving vendor endpoint.
package circuit

import (
	"sync"
	"time"
)

// State of the breaker.
type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

// StateChange reports a transition caused by a recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker counts consecutive failures and opens after a threshold. While open,
// consecutive successes close it again. Allow gates callers: a closed breaker
// always allows, an open breaker allows one probe per retry interval.
type Breaker struct {
	mu sync.Mutex

	name             string
	failureThreshold int
	successThreshold int
	retryInterval    time.Duration

	state     State
	failures  int
	successes int
	openedAt  time.Time
	lastProbe time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open
// breaker.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithRetryInterval sets how often an open breaker lets a probe through.
func WithRetryInterval(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.retryInterval = d
		}
	}
}

// New builds a closed breaker.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 1,
		retryInterval:    time.Minute,
		state:            StateClosed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Allow reports whether a call may proceed. Open breakers allow a single
// probe per retry interval so they can eventually observe a recovery.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		return true
	}
	now := time.Now()
	if b.lastProbe.IsZero() || now.Sub(b.lastProbe) >= b.retryInterval {
		b.lastProbe = now
		return true
	}
	return false
}

// RecordFailure registers a failed call. The first return value reports
// whether callers should avoid the primary path (breaker is open).
func (b *Breaker) RecordFailure() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	if b.state == StateOpen {
		return true, StateChange{}
	}
	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		b.openedAt = time.Now()
		b.failures = 0
		return true, StateChange{Opened: true}
	}
	return false, StateChange{}
}

// RecordSuccess registers a successful call. The first return value reports
// whether callers may use the primary path (breaker is closed).
func (b *Breaker) RecordSuccess() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == StateClosed {
		return true, StateChange{}
	}
	b.successes++
	if b.successes >= b.successThreshold {
		b.state = StateClosed
		b.successes = 0
		b.lastProbe = time.Time{}
		return true, StateChange{Closed: true}
	}
	return false, StateChange{}
}

// Reset forces the breaker back to closed with all counters cleared.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.lastProbe = time.Time{}
}
