package retry

import (
	"context"
	"time"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// Loop is the manual, caller-driven counterpart to Executor for operations
// that need per-attempt setup or teardown and cannot be expressed as a
// single wrapped callable. It shares the Executor's policy evaluator, so a
// Loop and an Executor built from the same classifier and strategy produce
// identical attempt counts and delay sequences.
//
// Usage:
//
//	loop := retry.NewLoop(classifier, strategy)
//	for loop.ShouldContinue() {
//	    conn, err := dial(ctx)
//	    if err == nil {
//	        err = send(ctx, conn)
//	        conn.Close()
//	    }
//	    if err == nil {
//	        break
//	    }
//	    if herr := loop.HandleError(ctx, err); herr != nil {
//	        return herr // terminal
//	    }
//	}
//
// A Loop tracks the state of one logical operation and must not be reused
// or shared across concurrent invocations.
type Loop struct {
	classifier bizreport.ErrorClassifier
	strategy   bizreport.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
	sleep      SleepFunc

	attempt int
	lastErr error
}

// NewLoop creates retry state for one operation.
// Panics if classifier or strategy is nil.
func NewLoop(classifier bizreport.ErrorClassifier, strategy bizreport.BackoffStrategy) *Loop {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Loop{
		classifier: classifier,
		strategy:   strategy,
		sleep:      defaultSleep,
	}
}

// WithOnRetry returns a new Loop with the specified retry callback.
// Must be called before the first attempt.
func (l *Loop) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Loop {
	clone := *l
	clone.onRetry = callback
	return &clone
}

// WithSleepFunc returns a new Loop using the given sleep function.
// Must be called before the first attempt.
func (l *Loop) WithSleepFunc(sleep SleepFunc) *Loop {
	clone := *l
	clone.sleep = sleep
	return &clone
}

// ShouldContinue reports whether the retry budget still allows an attempt.
func (l *Loop) ShouldContinue() bool {
	max := l.strategy.MaxAttempts()
	return max < 0 || l.attempt <= max
}

// HandleError records a failed attempt. It returns the error itself when
// the failure is terminal (non-transient category, or budget exhausted);
// otherwise it waits the backoff delay and returns nil so the caller's
// loop can retry.
func (l *Loop) HandleError(ctx context.Context, err error) error {
	l.lastErr = err

	d := decide(l.classifier, l.strategy, l.attempt, err)
	l.attempt++
	if d.terminal {
		return err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if l.onRetry != nil {
		l.onRetry(l.attempt-1, err, d.delay)
	}

	return l.sleep(ctx, d.delay)
}

// Attempt returns the number of failures recorded so far.
func (l *Loop) Attempt() int {
	return l.attempt
}

// LastErr returns the most recent failure, or nil if none was recorded.
func (l *Loop) LastErr() error {
	return l.lastErr
}
