package resilience

import (
	"log/slog"
	"sync"
	"time"
)

// Status is the circuit breaker position.
type Status string

const (
	StatusClosed   Status = "closed"
	StatusOpen     Status = "open"
	StatusHalfOpen Status = "half-open"
)

// Snapshot is a point-in-time copy of the breaker state.
type Snapshot struct {
	Status              Status
	ConsecutiveFailures int
	OpenedAt            time.Time
	RecoveryDeadline    time.Time
}

// Breaker tracks rate-limit signals from the primary model and decides when
// requests should go to the fallback instead.
//
// closed -> open when consecutive rate limits reach the threshold.
// open -> half-open on the first request after the recovery deadline.
// half-open -> closed on a successful probe, or back to open on a failed one.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	backoff   time.Duration
	state     Snapshot
	now       func() time.Time
	logger    *slog.Logger
}

// NewBreaker creates a closed breaker. A threshold below one is treated as one.
func NewBreaker(threshold int, backoff time.Duration, logger *slog.Logger) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Breaker{
		threshold: threshold,
		backoff:   backoff,
		state:     Snapshot{Status: StatusClosed},
		now:       time.Now,
		logger:    logger,
	}
}

// UsePrimary reports whether the next request should go to the primary model.
// An open breaker whose deadline has passed moves to half-open and lets one probe through.
func (b *Breaker) UsePrimary() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state.Status {
	case StatusOpen:
		if b.now().Before(b.state.RecoveryDeadline) {
			return false
		}
		b.transition(StatusHalfOpen)
		return true
	default:
		return true
	}
}

// RecordRateLimit counts a rate-limit signal from the primary.
func (b *Breaker) RecordRateLimit() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.ConsecutiveFailures++

	switch b.state.Status {
	case StatusHalfOpen:
		b.open()
	case StatusClosed:
		if b.state.ConsecutiveFailures >= b.threshold {
			b.open()
		}
	}
}

// RecordFailure handles a primary failure that is not a rate limit.
// Only a half-open probe is affected: it reopens the breaker.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state.Status == StatusHalfOpen {
		b.open()
	}
}

// RecordSuccess closes the breaker after a successful primary request.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.ConsecutiveFailures = 0
	if b.state.Status != StatusClosed {
		b.state.OpenedAt = time.Time{}
		b.state.RecoveryDeadline = time.Time{}
		b.transition(StatusClosed)
	}
}

// Snapshot returns a copy of the current state.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// open must be called with mu held.
func (b *Breaker) open() {
	now := b.now()
	b.state.OpenedAt = now
	b.state.RecoveryDeadline = now.Add(b.backoff)
	b.transition(StatusOpen)
}

func (b *Breaker) transition(to Status) {
	from := b.state.Status
	b.state.Status = to
	b.logger.Info("circuit breaker transition",
		"from", from,
		"to", to,
		"consecutive_failures", b.state.ConsecutiveFailures,
		"recovery_deadline", b.state.RecoveryDeadline,
	)
}
