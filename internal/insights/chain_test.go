package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhadhrami/bizreport/internal/retry"
)

// fakeResponder scripts a responder's availability and outcomes.
type fakeResponder struct {
	name      string
	available bool
	text      string
	err       error
	errUntil  int // return err for calls <= errUntil
	calls     int
}

func (f *fakeResponder) Name() string    { return f.name }
func (f *fakeResponder) Available() bool { return f.available }

func (f *fakeResponder) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	if f.err != nil && (f.errUntil == 0 || f.calls <= f.errUntil) {
		return "", f.err
	}
	return f.text, nil
}

// fastExecutor retries transient call failures without real sleeping.
func fastExecutor() *retry.Executor {
	return retry.NewExecutor(NewCallClassifier(), retry.NewExponentialBackoff(3, retry.WithJitter(0))).
		WithSleepFunc(func(ctx context.Context, d time.Duration) error { return nil })
}

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: true, text: "Revenue is trending up."}
	secondary := &fakeResponder{name: "local model", available: true, text: "unused"}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.Equal(t, "Revenue is trending up.", result.Text)
	assert.Equal(t, "OpenRouter", result.Source)
	assert.False(t, result.Degraded)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "secondary must not be invoked when primary succeeds")
}

func TestChain_PrimaryUnavailableUsesSecondary(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: false}
	secondary := &fakeResponder{name: "local model", available: true, text: "local summary"}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.Equal(t, "local summary", result.Text, "secondary output must be returned unmodified")
	assert.Equal(t, "local model", result.Source)
	assert.False(t, result.Degraded)
	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChain_FailureTextFallsOverToSecondary(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: true, text: "OpenRouter API error: upstream exploded"}
	secondary := &fakeResponder{name: "local model", available: true, text: "local summary"}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.True(t, result.Degraded)
	// Composed result carries both the primary's diagnostic and the
	// secondary's output, labeled as a fallback.
	assert.Contains(t, result.Text, "upstream exploded")
	assert.Contains(t, result.Text, "local summary")
	assert.Contains(t, result.Text, "FALLBACK")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChain_FailureTextWithoutSecondaryReturnedAsIs(t *testing.T) {
	diagnostic := "OpenRouter API error: quota exceeded"
	primary := &fakeResponder{name: "OpenRouter", available: true, text: diagnostic}
	secondary := &fakeResponder{name: "local model", available: false}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.Equal(t, diagnostic, result.Text)
	assert.True(t, result.Degraded)
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_NeitherAvailableReturnsSentinel(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: false}
	secondary := &fakeResponder{name: "local model", available: false}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.Equal(t, NoBackendMessage, result.Text)
	assert.Equal(t, "none", result.Source)
	assert.True(t, result.Degraded)
	assert.Equal(t, 0, primary.calls, "sentinel path must not attempt any call")
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_ForcedLocalBypassesPrimary(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: true, text: "remote"}
	secondary := &fakeResponder{name: "local model", available: true, text: "local"}
	chain := NewChain(primary, secondary, fastExecutor(), nil, true)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.Equal(t, "local", result.Text)
	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChain_ForcedLocalWithoutRuntime(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: true, text: "remote"}
	secondary := &fakeResponder{name: "local model", available: false}
	chain := NewChain(primary, secondary, fastExecutor(), nil, true)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.True(t, result.Degraded)
	assert.Contains(t, result.Text, "local model error")
	assert.Equal(t, 0, primary.calls)
}

func TestChain_TransientAPIErrorRetriedThenSucceeds(t *testing.T) {
	primary := &fakeResponder{
		name:      "OpenRouter",
		available: true,
		text:      "recovered answer",
		err:       &APIError{Code: 503, Message: "service unavailable"},
		errUntil:  2, // fail twice, succeed on third call
	}
	chain := NewChain(primary, nil, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.Equal(t, "recovered answer", result.Text)
	assert.False(t, result.Degraded)
	assert.Equal(t, 3, primary.calls)
}

func TestChain_TerminalAPIErrorBecomesDiagnostic(t *testing.T) {
	primary := &fakeResponder{
		name:      "OpenRouter",
		available: true,
		err:       &APIError{Code: 402, Message: "insufficient credits"},
	}
	chain := NewChain(primary, nil, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	// Terminal response-level failures convert to descriptive text, not errors
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Text, "insufficient credits")
	assert.Equal(t, 1, primary.calls, "terminal codes must not be retried")
}

func TestChain_ParseErrorNotRetried(t *testing.T) {
	primary := &fakeResponder{
		name:      "OpenRouter",
		available: true,
		err:       &ParseError{Err: errors.New("unexpected end of JSON input")},
	}
	secondary := &fakeResponder{name: "local model", available: true, text: "local rescue"}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	require.Equal(t, 1, primary.calls, "structural mismatches must not be retried")
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Text, "local rescue")
}

func TestChain_SecondaryErrorComposedIntoFallback(t *testing.T) {
	primary := &fakeResponder{name: "OpenRouter", available: true, text: "request timed out"}
	secondary := &fakeResponder{name: "local model", available: true, err: errors.New("model not pulled")}
	chain := NewChain(primary, secondary, fastExecutor(), nil, false)

	result := chain.GenerateResult(context.Background(), "analyze", 100)

	assert.True(t, result.Degraded)
	assert.Contains(t, result.Text, "local model error")
	assert.Contains(t, result.Text, "model not pulled")
}

func TestLooksLikeFailure(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Revenue grew strongly this quarter.", false},
		{"OpenRouter API error: nope", true},
		{"The request TIMED OUT after 120s", true},
		{"generation failed upstream", true},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeFailure(tt.text), "text: %q", tt.text)
	}
}
