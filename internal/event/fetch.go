// AngelaMos | 2026
// fetch.go

package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/tiered-events/internal/config"
	"github.com/carterperez-dev/templates/tiered-events/internal/core"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 5 * time.Second
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// RetryPolicyFromConfig keeps the defaults for any zero field.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	p := DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelay > 0 {
		p.BaseDelay = cfg.BaseDelay
	}
	if cfg.MaxDelay > 0 {
		p.MaxDelay = cfg.MaxDelay
	}
	return p
}

// Delay is the wait after the given failed attempt (1-based):
// min(base * 2^(attempt-1), max).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	return min(d, p.MaxDelay)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Fetcher struct {
	repo   Repository
	policy RetryPolicy
	sleep  Sleeper
	logger *slog.Logger
}

type FetcherOption func(*Fetcher)

func WithSleeper(s Sleeper) FetcherOption {
	return func(f *Fetcher) {
		f.sleep = s
	}
}

func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = l
	}
}

func NewFetcher(repo Repository, policy RetryPolicy, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		repo:   repo,
		policy: policy,
		sleep:  timerSleep,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Policy() RetryPolicy {
	return f.policy
}

// FetchEvents reads the catalog, retrying failed reads sequentially with
// exponential backoff. maxAttempts <= 0 is treated as a single attempt.
// Each attempt is all-or-nothing; an empty catalog is a success. After the
// last attempt fails the last error is returned.
func (f *Fetcher) FetchEvents(ctx context.Context, maxAttempts int) ([]Event, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var (
		lastErr  error
		attempts int
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		events, err := f.repo.ListOrdered(ctx)
		if err == nil {
			return events, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}

		core.AddSpanEvent(ctx, "events.fetch_failed",
			attribute.Int("attempt", attempt),
			attribute.String("error", err.Error()),
		)

		if attempt == maxAttempts {
			break
		}

		delay := f.policy.Delay(attempt)
		f.logger.WarnContext(ctx, "event catalog read failed, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"retry_in", delay,
			"error", err,
		)

		if sleepErr := f.sleep(ctx, delay); sleepErr != nil {
			return nil, fmt.Errorf("fetch events: %w", sleepErr)
		}
	}

	return nil, fmt.Errorf("fetch events: %d attempts: %w", attempts, lastErr)
}
