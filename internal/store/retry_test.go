package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}
	attempts := 0

	start := time.Now()
	err := policy.Do(context.Background(), "select", "schedules", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	// two waits: base then doubled base
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestRetryExhaustsAttemptBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	attempts := 0

	err := policy.Do(context.Background(), "select", "events", func() error {
		attempts++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, KindConnectivity, KindOf(err))
}

func TestRetryStopsOnNonRetryableFailure(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}
	attempts := 0

	err := policy.Do(context.Background(), "insert", "schedules", func() error {
		attempts++
		return ErrUnknownColumn
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "validation failures must not be retried")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRetryRespectsCancelledContext(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, "select", "programs", func() error {
			attempts++
			return errors.New("connection refused")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, attempts, "cancellation must interrupt the backoff wait")
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not observe context cancellation")
	}
}

func TestRetryNormalizesPolicy(t *testing.T) {
	p := RetryPolicy{}.normalized()
	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, time.Second, p.BaseDelay)

	def := DefaultRetryPolicy()
	assert.Equal(t, 3, def.MaxAttempts)
	assert.Equal(t, time.Second, def.BaseDelay)
}

func TestRetryErrorIsAlwaysClassified(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}

	err := policy.Do(context.Background(), "get", "schedules", func() error {
		return errors.New("something inexplicable")
	})

	var ce *ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "get", ce.Op)
	assert.Equal(t, "schedules", ce.Tbl)
	assert.Equal(t, KindUnknown, ce.Kind)
}
