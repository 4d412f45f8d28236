package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func TestRetrier_ZeroValueSingleAttempt(t *testing.T) {
	attempts := 0
	err := Retrier{}.Do(context.Background(), func(context.Context) error {
		attempts++
		return &googleapi.Error{Code: http.StatusServiceUnavailable}
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetrier_RetriesServerErrors(t *testing.T) {
	r := Retrier{MaxRetries: 3, Backoff: time.Millisecond}

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return &googleapi.Error{Code: http.StatusTooManyRequests}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetrier_StopsOnClientError(t *testing.T) {
	r := Retrier{MaxRetries: 3, Backoff: time.Millisecond}

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return &googleapi.Error{Code: http.StatusForbidden}
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetrier_ExhaustsAttempts(t *testing.T) {
	r := Retrier{MaxRetries: 2, Backoff: time.Millisecond}

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return &statusError{Code: http.StatusBadGateway}
	})

	var serr *statusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected statusError, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	r := Retrier{MaxRetries: 3, Backoff: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := r.Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return &statusError{Code: http.StatusInternalServerError}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
