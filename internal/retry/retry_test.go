package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoRunsAtLeastOnce(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 0}, func() error {
		calls++
		return errors.New("boom")
	})

	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
	if err == nil {
		t.Fatal("the single attempt's error must be returned, not nil")
	}
}

func TestDoZeroAttemptsCanStillSucceed(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: -1}, func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("fn called %d times, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 2, Delay: time.Millisecond}, func() error {
		calls++
		return errors.New("always")
	})

	if calls != 2 {
		t.Fatalf("fn called %d times, want 2", calls)
	}
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Config{MaxAttempts: 3, Delay: time.Hour}, func() error {
		calls++
		return errors.New("transient")
	})

	if calls != 1 {
		t.Fatalf("fn called %d times, want 1 before cancellation", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
