// Package retry provides automatic retry logic with exponential backoff
// for transient failures of outbound calls (model APIs, SMTP delivery).
//
// The package supports pluggable error classification and backoff strategies
// and exposes two equivalent usage shapes: the Executor wraps a whole
// operation, while the Loop hands control of the attempt loop to the caller
// for operations that need per-attempt setup or teardown. Both shapes share
// a single policy evaluator, so attempt counts and delay sequences are
// identical regardless of which one a caller picks.
//
// # Example Usage
//
//	classifier := retry.NewTransportErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return sendReport(ctx)
//	})
//
// # Error Classification
//
// The ErrorClassifier interface determines which errors are transient
// (retryable) versus fatal (non-retryable). The TransportErrorClassifier
// recognizes network-level failures like connection refused, resets, and
// timeouts. AnyError treats every error as transient.
//
// # Thread Safety
//
// Executor configuration methods (WithOnRetry, WithSleepFunc) return new
// instances, so a shared base executor can be specialized per call site
// without locking. A Loop carries per-call attempt state and must never be
// shared across concurrent operations.
package retry
