package bizreport

import "context"

// Responder produces text for a prompt. Implementations wrap either a
// remote text-generation service or a local model runtime.
type Responder interface {
	// Name identifies the responder in logs and composed fallback output.
	Name() string

	// Available reports whether the responder can be invoked at all
	// (credentials present, runtime reachable). It must be cheap after
	// the first call.
	Available() bool

	// Generate answers the prompt with at most maxTokens of output.
	// Transport and transient failures are returned as errors; a nil
	// error does not guarantee semantic success, since some services
	// report failures inside an otherwise successful response.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
