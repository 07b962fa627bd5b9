package bizreport

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0  // Report generated and delivered successfully
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration or missing credentials
	ExitDataError    = 11 // Data file missing or failed validation
	ExitSendFailed   = 12 // Email delivery failed after retries
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 1 * time.Second

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultSMTPPort is the default SMTP submission port (STARTTLS).
	DefaultSMTPPort = 587

	// DefaultSMTPTimeout bounds a single SMTP dial+send attempt.
	DefaultSMTPTimeout = 30 * time.Second

	// DefaultRemoteTimeout bounds a single remote model call. Reasoning
	// models can take well over a minute to produce a short answer.
	DefaultRemoteTimeout = 120 * time.Second

	// DefaultMaxTokens is the default completion budget for insight generation.
	DefaultMaxTokens = 500

	// DefaultSubjectMaxTokens is the completion budget for subject lines.
	DefaultSubjectMaxTokens = 30

	// DefaultRemoteModel is the OpenRouter model used when none is configured.
	DefaultRemoteModel = "deepseek/deepseek-r1-0528:free"

	// DefaultLocalModel is the local runtime model used when none is configured.
	DefaultLocalModel = "llama3.2:1b"

	// DefaultLocalURL is the base URL of the local model runtime.
	DefaultLocalURL = "http://localhost:11434"

	// ConfigFileName is the per-project configuration file.
	ConfigFileName = "bizreport.yaml"
)
