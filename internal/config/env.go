package config

import (
	"os"
	"strings"
)

// Environment variable names. Secrets never live in bizreport.yaml.
const (
	EnvSMTPPassword     = "SMTP_PASSWORD"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
	EnvUseLocalModel    = "USE_LOCAL_MODEL"
)

// Secrets holds the environment-only settings.
type Secrets struct {
	SMTPPassword     string
	OpenRouterAPIKey string

	// ForceLocal mirrors USE_LOCAL_MODEL ("true" or "1"); it overrides
	// the config file's force_local when set.
	ForceLocal bool
}

// ReadSecrets resolves secrets from the process environment. Callers load
// .env beforehand (the CLI does `_ = godotenv.Load()` once at startup).
func ReadSecrets() Secrets {
	return Secrets{
		SMTPPassword:     os.Getenv(EnvSMTPPassword),
		OpenRouterAPIKey: os.Getenv(EnvOpenRouterAPIKey),
		ForceLocal:       isTruthy(os.Getenv(EnvUseLocalModel)),
	}
}

// isTruthy accepts the enabled forms "1" and any casing of "true".
func isTruthy(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}
