package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

func TestCallWithDeadline_Success(t *testing.T) {
	v, err := callWithDeadline(context.Background(), time.Second, time.Millisecond,
		func(context.Context) (int, error) { return 42, nil })

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCallWithDeadline_RetriesOnce(t *testing.T) {
	var calls atomic.Int32
	v, err := callWithDeadline(context.Background(), time.Second, time.Millisecond,
		func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("flaky")
			}
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallWithDeadline_SecondFailureIsReturned(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	_, err := callWithDeadline(context.Background(), time.Second, time.Millisecond,
		func(context.Context) (int, error) {
			calls.Add(1)
			return 0, boom
		})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.StatusError, statusFor(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallWithDeadline_RateLimitIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	_, err := callWithDeadline(context.Background(), time.Second, time.Millisecond,
		func(context.Context) (int, error) {
			calls.Add(1)
			return 0, domain.ErrRateLimited
		})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallWithDeadline_AbandonsCallIgnoringContext(t *testing.T) {
	start := time.Now()
	_, err := callWithDeadline(context.Background(), 30*time.Millisecond, time.Millisecond,
		func(context.Context) (int, error) {
			time.Sleep(500 * time.Millisecond)
			return 1, nil
		})

	assert.ErrorIs(t, err, domain.ErrSourceTimeout)
	assert.Equal(t, domain.StatusTimeout, statusFor(err))
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestCallWithDeadline_NoRetryAfterDeadline(t *testing.T) {
	var calls atomic.Int32
	_, err := callWithDeadline(context.Background(), 30*time.Millisecond, time.Millisecond,
		func(ctx context.Context) (int, error) {
			calls.Add(1)
			<-ctx.Done()
			return 0, ctx.Err()
		})

	assert.ErrorIs(t, err, domain.ErrSourceTimeout)
	// Let a stray retry show up if one were scheduled.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallWithDeadline_RetryDelayPastDeadline(t *testing.T) {
	var calls atomic.Int32
	_, err := callWithDeadline(context.Background(), 30*time.Millisecond, time.Second,
		func(context.Context) (int, error) {
			calls.Add(1)
			return 0, errors.New("flaky")
		})

	assert.ErrorIs(t, err, domain.ErrSourceTimeout)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallWithDeadline_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := callWithDeadline(ctx, time.Second, time.Millisecond,
		func(ctx context.Context) (int, error) { return 0, ctx.Err() })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StatusError, statusFor(err))
}
