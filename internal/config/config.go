package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Report frequencies accepted by the scheduler.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

type DataConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	Title     string `yaml:"title"`
	Frequency string `yaml:"frequency"`
	Time      string `yaml:"time"`
}

type SMTPConfig struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port"`
	Sender     string   `yaml:"sender"`
	Recipients []string `yaml:"recipients"`
}

type AIConfig struct {
	Model            string `yaml:"model"`
	MaxTokens        int    `yaml:"max_tokens"`
	SubjectMaxTokens int    `yaml:"subject_max_tokens"`
	LocalURL         string `yaml:"local_url"`
	LocalModel       string `yaml:"local_model"`
	ForceLocal       bool   `yaml:"force_local"`
	SiteURL          string `yaml:"site_url,omitempty"`
	SiteName         string `yaml:"site_name,omitempty"`
}

type RetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
	MaxDelay   string `yaml:"max_delay"`
}

type ProjectConfig struct {
	Data    DataConfig   `yaml:"data"`
	Report  ReportConfig `yaml:"report"`
	SMTP    SMTPConfig   `yaml:"smtp"`
	AI      AIConfig     `yaml:"ai"`
	Retry   RetryConfig  `yaml:"retry"`
	Timeout string       `yaml:"timeout,omitempty"`
}

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, bizreport.ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *ProjectConfig) applyDefaults() {
	if c.Report.Title == "" {
		c.Report.Title = "Business Report"
	}
	if c.Report.Frequency == "" {
		c.Report.Frequency = FrequencyDaily
	}
	if c.Report.Time == "" {
		c.Report.Time = "09:00"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = bizreport.DefaultSMTPPort
	}
	if c.AI.Model == "" {
		c.AI.Model = bizreport.DefaultRemoteModel
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = bizreport.DefaultMaxTokens
	}
	if c.AI.SubjectMaxTokens == 0 {
		c.AI.SubjectMaxTokens = bizreport.DefaultSubjectMaxTokens
	}
	if c.AI.LocalURL == "" {
		c.AI.LocalURL = bizreport.DefaultLocalURL
	}
	if c.AI.LocalModel == "" {
		c.AI.LocalModel = bizreport.DefaultLocalModel
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = bizreport.DefaultRetryMaxAttempts
	}
	if c.Retry.BaseDelay == "" {
		c.Retry.BaseDelay = bizreport.DefaultRetryInitialDelay.String()
	}
	if c.Retry.MaxDelay == "" {
		c.Retry.MaxDelay = bizreport.DefaultRetryMaxDelay.String()
	}
}

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks the fields that cannot be defaulted into shape. It does
// not check credentials; those are resolved from the environment at send
// time.
func (c *ProjectConfig) Validate() error {
	var errs []error

	switch c.Report.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		errs = append(errs, fmt.Errorf("%w: frequency must be daily, weekly or monthly, got %q",
			bizreport.ErrInvalidConfig, c.Report.Frequency))
	}

	if !timeOfDayPattern.MatchString(c.Report.Time) {
		errs = append(errs, fmt.Errorf("%w: report time must be HH:MM (24-hour), got %q",
			bizreport.ErrInvalidConfig, c.Report.Time))
	}

	if _, err := c.BaseDelay(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.MaxDelay(); err != nil {
		errs = append(errs, err)
	}
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: max_retries must not be negative", bizreport.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// BaseDelay parses the retry base delay.
func (c *ProjectConfig) BaseDelay() (time.Duration, error) {
	return parseDelay("base_delay", c.Retry.BaseDelay)
}

// MaxDelay parses the retry delay cap.
func (c *ProjectConfig) MaxDelay() (time.Duration, error) {
	return parseDelay("max_delay", c.Retry.MaxDelay)
}

func parseDelay(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: retry %s %q is not a duration", bizreport.ErrInvalidConfig, field, value)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: retry %s must not be negative", bizreport.ErrInvalidConfig, field)
	}
	return d, nil
}
