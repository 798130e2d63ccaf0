package retry_test

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/resilience/retry"
)

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:    attempts,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
}

func TestWithBackoffSucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.WithBackoff(context.Background(), fastConfig(3), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("WithBackoff() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithBackoffRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.WithBackoff(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return syscall.ECONNREFUSED
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithBackoff() = %v, want nil after recovery", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithBackoffStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	permanent := errors.New("bad request")
	calls := 0
	err := retry.WithBackoff(context.Background(), fastConfig(5), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("WithBackoff() = %v, want wrapped %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for non-retryable error", calls)
	}
}

func TestWithBackoffExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.WithBackoff(context.Background(), fastConfig(3), func() error {
		calls++
		return &retry.HTTPError{StatusCode: 503, Message: "unavailable"}
	})
	if err == nil {
		t.Fatal("WithBackoff() = nil, want error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithBackoffHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cfg := retry.Config{
		MaxAttempts:  5,
		InitialDelay: time.Minute, // never actually waited out
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
	}

	done := make(chan error, 1)
	go func() {
		done <- retry.WithBackoff(ctx, cfg, func() error {
			return syscall.ECONNRESET
		})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("WithBackoff() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WithBackoff() did not return after context cancellation")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset", err: syscall.ECONNRESET, want: true},
		{name: "http 500", err: &retry.HTTPError{StatusCode: 500}, want: true},
		{name: "http 429", err: &retry.HTTPError{StatusCode: 429}, want: true},
		{name: "http 404", err: &retry.HTTPError{StatusCode: 404}, want: false},
		{name: "http 400", err: &retry.HTTPError{StatusCode: 400}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retry.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
