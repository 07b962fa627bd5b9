package logging

// NullLogger discards everything. Tests and dry-run-only callers use it
// when report output should not be interleaved with log lines. Stateless,
// so safe for concurrent use.
type NullLogger struct{}

// NewNullLogger creates a logger that drops all messages.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}

func (l *NullLogger) Info(format string, args ...interface{}) {}

func (l *NullLogger) Error(format string, args ...interface{}) {}
