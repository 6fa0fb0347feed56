package rxn

import (
	"context"
	"log/slog"
	"time"
)

// Policy is the retry protocol used for prediction-job calls: sleep a fixed
// delay, run the guarded operation, and retry while Retryable reports the
// error as transient, up to Attempts guarded tries. After exhausting the
// guarded attempts one final unguarded call is made whose error, transient
// or not, propagates to the caller untouched.
type Policy struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
}

// Do runs op under the policy and returns its result.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err := sleepCtx(ctx, p.Delay); err != nil {
			var zero T
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return result, err
		}
		slog.Warn("retryable prediction-job failure",
			"attempt", attempt+1, "of", p.Attempts, "err", err)
	}

	return op(ctx)
}

// sleepCtx sleeps for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
