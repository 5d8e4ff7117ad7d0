package store

import (
	"context"
	"log"
	"time"
)

// RetryPolicy retries transient failures with exponential backoff: the wait
// starts at BaseDelay and doubles after every failed attempt (1s then 2s
// with the defaults). Non-retryable failures and context cancellation stop
// the loop immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy matches the documented defaults: three attempts with a
// one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// Do runs fn until it succeeds, a non-retryable failure occurs, the attempt
// budget is spent, or ctx is cancelled. The returned error is always
// classified. The backoff wait respects ctx.
func (p RetryPolicy) Do(ctx context.Context, op, table string, fn func() error) error {
	p = p.normalized()
	delay := p.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Classified(op, table, err)
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = Classified(op, table, err)
		if !KindOf(lastErr).Retryable() || attempt == p.MaxAttempts {
			return lastErr
		}
		log.Printf("store: %s %s attempt %d/%d failed: %v; retrying in %s",
			op, table, attempt, p.MaxAttempts, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Classified(op, table, ctx.Err())
		}
		delay *= 2
	}
	return lastErr
}
