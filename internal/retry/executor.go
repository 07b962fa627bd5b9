package retry

import (
	"context"
	"time"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// SleepFunc suspends the caller for d or until ctx is done.
// Injected in tests to assert delay sequences without real sleeping.
type SleepFunc func(ctx context.Context, d time.Duration) error

// defaultSleep waits for d, returning early with ctx.Err() on cancellation.
func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// decision is the outcome of evaluating one recorded failure.
type decision struct {
	// delay to wait before the next attempt; meaningless when terminal
	delay time.Duration

	// terminal means no further attempts are made and the error is surfaced
	terminal bool
}

// decide is the single policy evaluator shared by Executor and Loop.
// attempt is the zero-indexed retry slot the failure occupies: 0 for the
// failure of the first invocation, 1 for the second, and so on. A failure
// is terminal when its category is not transient or the retry budget is
// already spent.
func decide(classifier bizreport.ErrorClassifier, strategy bizreport.BackoffStrategy, attempt int, err error) decision {
	if !classifier.IsTransient(err) {
		return decision{terminal: true}
	}
	max := strategy.MaxAttempts()
	if max >= 0 && attempt >= max {
		return decision{terminal: true}
	}
	return decision{delay: strategy.NextDelay(attempt)}
}

// Executor orchestrates retry attempts with backoff and error classification.
//
// Thread Safety:
// The Executor itself is safe for concurrent use when calling Execute().
// WithOnRetry() and WithSleepFunc() return a NEW instance with the field
// configured; the original Executor remains unchanged.
type Executor struct {
	classifier bizreport.ErrorClassifier
	strategy   bizreport.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
	sleep      SleepFunc
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier bizreport.ErrorClassifier, strategy bizreport.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
		sleep:      defaultSleep,
	}
}

// WithOnRetry returns a new Executor with the specified retry callback.
// The callback fires once per retry, before the backoff wait, with the
// zero-indexed attempt, the failure, and the computed delay. It does not
// fire for the initial attempt or for the terminal failure.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// WithSleepFunc returns a new Executor using the given sleep function.
func (e *Executor) WithSleepFunc(sleep SleepFunc) *Executor {
	clone := *e
	clone.sleep = sleep
	return &clone
}

// Execute runs the operation with retry logic.
// On success the result is returned immediately regardless of how many
// attempts it took. On exhaustion or a fatal error the LAST observed error
// is returned as-is, preserving root-cause visibility for the caller.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}

		d := decide(e.classifier, e.strategy, attempt, err)
		if d.terminal {
			return err
		}

		// Check context cancellation before waiting
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if e.onRetry != nil {
			e.onRetry(attempt, err, d.delay)
		}

		if sleepErr := e.sleep(ctx, d.delay); sleepErr != nil {
			return sleepErr
		}
	}
}
