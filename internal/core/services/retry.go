package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// attempt is the result of one guarded source call.
type attempt[T any] struct {
	value T
	err   error
}

// callWithDeadline runs fn under a single deadline that covers the first
// call and at most one retry. The retry waits retryDelay and is skipped when
// the deadline has already passed, the parent context ended, or the error
// is a rate limit. A call that ignores its context is abandoned when the
// deadline fires and reported as domain.ErrSourceTimeout.
func callWithDeadline[T any](
	parent context.Context,
	timeout, retryDelay time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	// Buffered so an abandoned call can finish without leaking the goroutine.
	done := make(chan attempt[T], 1)
	go func() {
		v, err := fn(ctx)
		if err != nil && retryable(ctx, err) {
			timer := time.NewTimer(retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
				v, err = fn(ctx)
			}
		}
		done <- attempt[T]{value: v, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		if res.err != nil {
			return zero, classify(parent, ctx, timeout, res.err)
		}
		return res.value, nil
	case <-ctx.Done():
		return zero, classify(parent, ctx, timeout, ctx.Err())
	}
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, domain.ErrRateLimited)
}

// classify maps deadline expiry to domain.ErrSourceTimeout and leaves
// caller cancellation and ordinary failures untouched.
func classify(parent, ctx context.Context, timeout time.Duration, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", domain.ErrSourceTimeout, timeout)
	}
	return err
}

// statusFor converts a source call outcome into its reported status.
func statusFor(err error) domain.Status {
	switch {
	case err == nil:
		return domain.StatusSuccess
	case errors.Is(err, domain.ErrSourceTimeout):
		return domain.StatusTimeout
	default:
		return domain.StatusError
	}
}
