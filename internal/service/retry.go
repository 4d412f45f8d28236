package service

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

// Retrier runs a call up to MaxRetries+1 times with exponential backoff and
// jitter. The zero value performs exactly one attempt.
type Retrier struct {
	MaxRetries int
	Backoff    time.Duration
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts are exhausted.
func (r Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	backoff := r.Backoff

	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(withJitter(backoff)):
				backoff *= 2
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// withJitter adds up to 50% random delay
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}

// statusError is returned by plain HTTP clients for unexpected status codes
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return "unexpected status code: " + http.StatusText(e.Code)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return retryableStatus(gerr.Code)
	}

	var serr *statusError
	if errors.As(err, &serr) {
		return retryableStatus(serr.Code)
	}

	// per-attempt timeouts and transport failures
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
