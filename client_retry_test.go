package kafka

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func alwaysRetryable(error) bool { return true }

func TestRetryOnErrorAbortsWhenClosing(t *testing.T) {
	closing := make(chan struct{})
	close(closing)

	boom := errors.New("boom")
	err := retryOnError(closing, 5, time.Hour, alwaysRetryable, func() error {
		return boom
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "Client closed while retrying") {
		t.Errorf("error = %q, want prefix %q", err.Error(), "Client closed while retrying")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the underlying attempt error", err)
	}
}

func TestRetryOnErrorAggregatesOnExhaustion(t *testing.T) {
	closing := make(chan struct{})
	attempts := 0
	errA := errors.New("attempt A failed")
	errB := errors.New("attempt B failed")

	err := retryOnError(closing, 1, time.Millisecond, alwaysRetryable, func() error {
		attempts++
		if attempts == 1 {
			return errA
		}
		return errB
	})
	if attempts != 2 {
		t.Fatalf("fn called %d times, want 2 (maxRetries=1 means 2 attempts total)", attempts)
	}
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("error %v does not wrap ErrRetriesExhausted", err)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("error %v does not aggregate both attempt errors", err)
	}
}

func TestRetryOnErrorReturnsImmediatelyOnSuccess(t *testing.T) {
	closing := make(chan struct{})
	attempts := 0
	err := retryOnError(closing, 5, time.Hour, alwaysRetryable, func() error {
		attempts++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("fn called %d times, want 1", attempts)
	}
}

func TestRetryOnErrorStopsOnNonRetryableError(t *testing.T) {
	closing := make(chan struct{})
	fatal := errors.New("not retryable")
	attempts := 0
	err := retryOnError(closing, 5, time.Millisecond, func(error) bool { return false }, func() error {
		attempts++
		return fatal
	})
	if attempts != 1 {
		t.Errorf("fn called %d times, want 1", attempts)
	}
	if !errors.Is(err, fatal) {
		t.Errorf("error = %v, want %v", err, fatal)
	}
}
