package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alhadhrami/bizreport/internal/retry"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// NoBackendMessage is returned when neither responder is usable. It is a
// plain text result rather than an error so the report still renders with
// a degraded insights section.
const NoBackendMessage = "No backend available: neither a remote API key nor a local model runtime is usable."

// failureVocabulary are the case-insensitive markers that flag a
// successful-looking response as a failure report. This is a heuristic
// carried by the caller-visible contract, not a typed outcome.
var failureVocabulary = []string{"error", "timed out", "failed"}

// LooksLikeFailure reports whether text reads as a failure diagnostic
// rather than a usable answer.
func LooksLikeFailure(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range failureVocabulary {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// NewCallClassifier classifies one remote invocation's failures for retry:
// transport-level failures and transient response-level codes (service
// unavailable class) are retryable; terminal API errors and parse errors
// are not.
func NewCallClassifier() bizreport.ErrorClassifier {
	transport := retry.NewTransportErrorClassifier()
	return retry.ClassifierFunc(func(err error) bool {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.Transient()
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return statusErr.Transient()
		}
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return false
		}
		return transport.IsTransient(err)
	})
}

// Result is the outcome of one chain invocation. Text always holds
// something displayable; Degraded marks diagnostics and fallback output so
// callers can apply display-time substitutions without string sniffing.
type Result struct {
	// Text is the answer or, when degraded, a labeled diagnostic.
	Text string

	// Source names the responder that produced Text ("none" when no
	// backend was usable).
	Source string

	// Degraded is true when Text is not a clean primary or local answer:
	// a diagnostic, a composed fallback, or the no-backend sentinel.
	Degraded bool
}

// Chain selects between a primary (remote) and secondary (local) responder
// for each request. The primary is always preferred when available and not
// overridden; fallback to the secondary happens at most once per request.
// Chain carries no per-request state and is safe for concurrent use.
type Chain struct {
	primary    bizreport.Responder
	secondary  bizreport.Responder
	executor   *retry.Executor
	logger     bizreport.Logger
	forceLocal bool
}

// NewChain wires the fallback chain. Either responder may be nil. A nil
// executor gets the standard remote-call retry policy: 3 retries, 1s base
// delay, transient failures only.
func NewChain(primary, secondary bizreport.Responder, executor *retry.Executor, logger bizreport.Logger, forceLocal bool) *Chain {
	if executor == nil {
		executor = retry.NewExecutor(
			NewCallClassifier(),
			retry.NewExponentialBackoff(bizreport.DefaultRetryMaxAttempts,
				retry.WithInitialDelay(1*time.Second),
			),
		)
	}
	return &Chain{
		primary:    primary,
		secondary:  secondary,
		executor:   executor,
		logger:     logger,
		forceLocal: forceLocal,
	}
}

// Generate runs the chain and returns the final text. See GenerateResult
// for the typed outcome.
func (c *Chain) Generate(ctx context.Context, prompt string, maxTokens int) string {
	return c.GenerateResult(ctx, prompt, maxTokens).Text
}

// GenerateResult runs the chain for one prompt.
//
// Selection order: a forced-local override goes straight to the secondary;
// otherwise the primary is invoked when available (beneath the retry
// executor), its outcome is classified, and a failure falls over to the
// secondary when one is usable. With no primary the secondary answers
// directly, and with neither the fixed sentinel is returned.
func (c *Chain) GenerateResult(ctx context.Context, prompt string, maxTokens int) Result {
	primaryOK := c.primary != nil && c.primary.Available()
	secondaryOK := c.secondary != nil && c.secondary.Available()

	if c.forceLocal {
		if secondaryOK {
			return c.invokeSecondary(ctx, prompt, maxTokens)
		}
		c.logf("forced local mode but no local runtime is usable")
		return Result{
			Text:     "local model error: runtime not available",
			Source:   "none",
			Degraded: true,
		}
	}

	if primaryOK {
		text, failed := c.invokePrimary(ctx, prompt, maxTokens)
		if (failed || LooksLikeFailure(text)) && secondaryOK {
			c.logf("%s result looks failed, falling back to %s", c.primary.Name(), c.secondary.Name())
			fallback := c.invokeSecondary(ctx, prompt, maxTokens)
			composed := fmt.Sprintf("(%s failed: %s)\n\n[FALLBACK - %s]\n%s",
				c.primary.Name(), text, c.secondary.Name(), fallback.Text)
			return Result{Text: composed, Source: fallback.Source, Degraded: true}
		}
		// Without a secondary the diagnostic is returned as-is; the
		// caller still gets text and applies its own display fallback.
		return Result{
			Text:     text,
			Source:   c.primary.Name(),
			Degraded: failed || LooksLikeFailure(text),
		}
	}

	if secondaryOK {
		return c.invokeSecondary(ctx, prompt, maxTokens)
	}

	return Result{Text: NoBackendMessage, Source: "none", Degraded: true}
}

// invokePrimary calls the remote responder beneath the retry executor and
// converts terminal failures into descriptive text. The bool result marks
// a typed failure independent of the vocabulary heuristic.
func (c *Chain) invokePrimary(ctx context.Context, prompt string, maxTokens int) (string, bool) {
	var text string
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		var genErr error
		text, genErr = c.primary.Generate(ctx, prompt, maxTokens)
		return genErr
	})
	if err == nil {
		return text, false
	}

	name := c.primary.Name()
	c.logf("%s call failed: %v", name, err)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s API error: %s", name, apiErr.Message), true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("Error parsing %s response: %v", name, parseErr.Err), true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s API request timed out.", name), true
	}
	return fmt.Sprintf("%s API error: %v", name, err), true
}

// invokeSecondary calls the local responder directly. Its failures become
// labeled diagnostic text, matching the chain's never-error contract.
func (c *Chain) invokeSecondary(ctx context.Context, prompt string, maxTokens int) Result {
	text, err := c.secondary.Generate(ctx, prompt, maxTokens)
	if err != nil {
		c.logf("%s call failed: %v", c.secondary.Name(), err)
		return Result{
			Text:     fmt.Sprintf("local model error: %v", err),
			Source:   c.secondary.Name(),
			Degraded: true,
		}
	}
	return Result{Text: text, Source: c.secondary.Name()}
}

func (c *Chain) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Verbose(format, args...)
	}
}
