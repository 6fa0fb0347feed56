package rxn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chemclerk/chemclerk/internal/chemerr"
)

func testPolicy(attempts int) Policy {
	return Policy{
		Attempts: attempts,
		Delay:    time.Millisecond,
		Retryable: func(err error) bool {
			return chemerr.Is(err, chemerr.Process) || chemerr.Is(err, chemerr.Output)
		},
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), testPolicy(5), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", chemerr.New(chemerr.Process, "transient")
		}
		return "done", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("got %q, want %q", got, "done")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_FinalUnguardedCallRuns(t *testing.T) {
	// After the guarded attempts are exhausted the operation runs once more
	// and its error propagates untouched.
	calls := 0
	wantErr := chemerr.New(chemerr.Output, "still failing")
	_, err := Do(context.Background(), testPolicy(3), func(context.Context) (int, error) {
		calls++
		return 0, wantErr
	})
	if calls != 4 {
		t.Errorf("calls = %d, want 3 guarded + 1 final", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestDo_FinalCallCanSucceed(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), testPolicy(2), func(context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", chemerr.New(chemerr.Process, "transient")
		}
		return "late", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "late" {
		t.Errorf("got %q, want %q", got, "late")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	wantErr := chemerr.New(chemerr.Input, "bad input")
	_, err := Do(context.Background(), testPolicy(5), func(context.Context) (string, error) {
		calls++
		return "", wantErr
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, testPolicy(5), func(context.Context) (string, error) {
		calls++
		return "", chemerr.New(chemerr.Process, "transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}
