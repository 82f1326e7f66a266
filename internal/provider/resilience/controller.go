package resilience

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
	"golang.org/x/time/rate"
)

// ErrPrimarySkipped is the primary-side cause when an open breaker routed a request straight to the fallback.
var ErrPrimarySkipped = errors.New("primary model skipped: circuit open")

const maxRetryDelay = 30 * time.Second

// Streamer is a single backend model.
type Streamer interface {
	Model() string
	Stream(ctx context.Context, req provider.Request) iter.Seq2[*provider.Chunk, error]
}

// Options tunes pacing and retries.
type Options struct {
	// RequestsPerMinute paces outbound requests. Zero disables pacing.
	RequestsPerMinute int
	// MaxRetries bounds retries of retryable, non-rate-limit errors seen before the first chunk.
	MaxRetries     int
	RetryBaseDelay time.Duration
	Logger         *slog.Logger
}

// Controller routes each request to the primary or fallback model based on the breaker.
type Controller struct {
	primary  Streamer
	fallback Streamer
	breaker  *Breaker
	limiter  *rate.Limiter

	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

// NewController creates a Controller. fallback may be nil.
func NewController(primary, fallback Streamer, breaker *Breaker, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	baseDelay := opts.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &Controller{
		primary:    primary,
		fallback:   fallback,
		breaker:    breaker,
		limiter:    limiter,
		maxRetries: max(opts.MaxRetries, 0),
		baseDelay:  baseDelay,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// BreakerState returns the current breaker snapshot.
func (c *Controller) BreakerState() Snapshot {
	return c.breaker.Snapshot()
}

// Stream sends req to the selected model and yields its chunks.
//
// A rate limit from the primary before any chunk has been yielded is recorded
// on the breaker and the request is replayed on the fallback. The caller sees an
// error only when no model could serve the request.
func (c *Controller) Stream(ctx context.Context, req provider.Request) iter.Seq2[*provider.Chunk, error] {
	return func(yield func(*provider.Chunk, error) bool) {
		primaryErr := ErrPrimarySkipped

		if c.fallback == nil || c.breaker.UsePrimary() {
			yielded, stopped, err := c.attempt(ctx, c.primary, req, yield)
			if stopped {
				return
			}
			if err == nil {
				c.breaker.RecordSuccess()
				return
			}
			if ctx.Err() != nil {
				yield(nil, err)
				return
			}

			if !provider.IsRateLimit(err) {
				c.breaker.RecordFailure()
				yield(nil, err)
				return
			}

			c.breaker.RecordRateLimit()
			if yielded || c.fallback == nil {
				yield(nil, err)
				return
			}
			primaryErr = err
			c.logger.Warn("primary model rate limited, using fallback",
				"primary", c.primary.Model(),
				"fallback", c.fallback.Model(),
			)
		} else {
			c.logger.Debug("circuit open, using fallback", "fallback", c.fallback.Model())
		}

		_, stopped, err := c.attempt(ctx, c.fallback, req, yield)
		if stopped || err == nil {
			return
		}
		if ctx.Err() != nil {
			yield(nil, err)
			return
		}
		yield(nil, fmt.Errorf("%w: primary: %w; fallback: %w", provider.ErrBackendExhausted, primaryErr, err))
	}
}

// attempt streams from s, retrying retryable errors that happen before the first chunk.
// stopped is true when the consumer stopped ranging.
func (c *Controller) attempt(ctx context.Context, s Streamer, req provider.Request, yield func(*provider.Chunk, error) bool) (yielded, stopped bool, err error) {
	for try := 0; ; try++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, false, err
		}

		yielded, stopped, err = streamOnce(ctx, s, req, yield)
		if err == nil || stopped || yielded {
			return yielded, stopped, err
		}
		if provider.IsRateLimit(err) || !provider.IsRetryable(err) || try >= c.maxRetries || ctx.Err() != nil {
			return false, false, err
		}

		delay := c.retryDelay(try, err)
		c.logger.Info("retrying backend request",
			"model", s.Model(),
			"attempt", try+1,
			"delay", delay,
			"error", err,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return false, false, err
		}
	}
}

func streamOnce(ctx context.Context, s Streamer, req provider.Request, yield func(*provider.Chunk, error) bool) (yielded, stopped bool, err error) {
	for chunk, err := range s.Stream(ctx, req) {
		if err != nil {
			return yielded, false, err
		}
		yielded = true
		if !yield(chunk, nil) {
			return true, true, nil
		}
	}
	return yielded, false, nil
}

func (c *Controller) retryDelay(try int, err error) time.Duration {
	if after := provider.GetRetryAfter(err); after != nil && *after > 0 {
		return min(*after, maxRetryDelay)
	}
	return min(c.baseDelay<<min(try, 10), maxRetryDelay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
