package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alhadhrami/bizreport/internal/config"
	"github.com/alhadhrami/bizreport/internal/insights"
	"github.com/alhadhrami/bizreport/internal/logging"
	"github.com/alhadhrami/bizreport/internal/mailer"
	"github.com/alhadhrami/bizreport/internal/report"
	"github.com/alhadhrami/bizreport/internal/retry"
	"github.com/alhadhrami/bizreport/internal/services"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

var runCmd = &cobra.Command{
	Use:   "run [project_path]",
	Short: "Generate and deliver a business report",
	Long: `Run generates one business report from the project's CSV data.

The run command:
1. Loads bizreport.yaml and the .env file from the project directory
2. Reads the CSV data source and computes KPIs
3. Generates AI insights (remote API, falling back to a local model)
4. Renders the HTML report email
5. Sends it over SMTP, or saves it to disk with --dry-run

Arguments:
  project_path    Path to the project directory containing bizreport.yaml
                  (default: current directory)

Credentials:
  For security, credentials are NOT accepted as CLI flags. Use:
    SMTP_PASSWORD        password for the SMTP sender account
    OPENROUTER_API_KEY   OpenRouter API key (optional)
  Both can live in the project's .env file. Use --prompt-password to type
  the SMTP password interactively instead.

AI degradation is never fatal: when no AI backend is usable the report is
still produced, with diagnostic text in the insights section.

Examples:
  # Preview without sending
  bizreport run . --dry-run

  # Preview to a specific file
  bizreport run ./reports --dry-run --output preview.html

  # Send to the configured recipients
  bizreport run ./reports

  # Override recipients and data source for one run
  bizreport run ./reports --recipient ceo@example.com --data q3.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

type runFlagValues struct {
	dryRun         bool
	output         string
	data           string
	recipients     []string
	timeout        time.Duration
	promptPassword bool
}

var runFlags runFlagValues

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false,
		"Render the report and save it to disk instead of sending email")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "",
		"Output file for --dry-run (default output/report.html)")
	runCmd.Flags().StringVar(&runFlags.data, "data", "",
		"CSV data file (overrides data.path from bizreport.yaml)")
	runCmd.Flags().StringSliceVar(&runFlags.recipients, "recipient", nil,
		"Recipient address (can be specified multiple times;\noverrides smtp.recipients from bizreport.yaml)")
	runCmd.Flags().DurationVar(&runFlags.timeout, "timeout", 3*time.Minute,
		"Catastrophic failure protection timeout (default 3m)\n"+
			"Bounds the whole run including AI calls and SMTP delivery\n"+
			"Examples: 30s, 5m, 1h30m")
	runCmd.Flags().BoolVar(&runFlags.promptPassword, "prompt-password", false,
		"Prompt for the SMTP password instead of reading SMTP_PASSWORD")
}

// runSetup is everything resolved from flags, bizreport.yaml, and the
// environment before the pipeline starts.
type runSetup struct {
	cfg     *config.ProjectConfig
	secrets config.Secrets
	request services.RunRequest
	timeout time.Duration
}

// buildRunSetup resolves the effective run settings. Extracted from the
// cobra handler for testability.
func buildRunSetup(cmd *cobra.Command, sourcePath string, flags runFlagValues) (*runSetup, error) {
	_ = godotenv.Load(filepath.Join(sourcePath, ".env"))
	_ = godotenv.Load()

	cfg, err := config.Load(sourcePath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: no %s in %s\n\nRun 'bizreport init <path>' to create a new project",
				bizreport.ErrInvalidConfig, bizreport.ConfigFileName, sourcePath)
		}
		return nil, fmt.Errorf("failed to load %s: %w", bizreport.ConfigFileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	secrets := config.ReadSecrets()

	dataPath := flags.data
	if dataPath == "" {
		dataPath = cfg.Data.Path
	}
	if dataPath == "" {
		return nil, fmt.Errorf("%w: no data file configured; set data.path or use --data", bizreport.ErrInvalidConfig)
	}
	if !filepath.IsAbs(dataPath) {
		dataPath = filepath.Join(sourcePath, dataPath)
	}

	recipients := flags.recipients
	if len(recipients) == 0 {
		recipients = cfg.SMTP.Recipients
	}
	if !flags.dryRun {
		if recipients, err = mailer.ValidateEmailList(recipients); err != nil {
			return nil, err
		}
	}

	// bizreport.yaml timeout applies unless --timeout was given explicitly
	timeout := flags.timeout
	if cfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, parseErr := time.ParseDuration(cfg.Timeout)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid timeout in %s: %v", bizreport.ErrInvalidConfig, bizreport.ConfigFileName, parseErr)
		}
		timeout = parsed
	}

	return &runSetup{
		cfg:     cfg,
		secrets: secrets,
		timeout: timeout,
		request: services.RunRequest{
			DataPath:         dataPath,
			Title:            cfg.Report.Title,
			Recipients:       recipients,
			DryRun:           flags.dryRun,
			OutputPath:       flags.output,
			MaxTokens:        cfg.AI.MaxTokens,
			SubjectMaxTokens: cfg.AI.SubjectMaxTokens,
		},
	}, nil
}

// newBackoff builds the shared backoff strategy from the project's retry
// settings. Validate() has already vetted the durations.
func newBackoff(cfg *config.ProjectConfig) bizreport.BackoffStrategy {
	base, _ := cfg.BaseDelay()
	max, _ := cfg.MaxDelay()
	return retry.NewExponentialBackoff(cfg.Retry.MaxRetries,
		retry.WithInitialDelay(base),
		retry.WithMaxDelay(max),
	)
}

// newInsightsChain wires the AI fallback chain from the project config.
func newInsightsChain(cfg *config.ProjectConfig, secrets config.Secrets, logger bizreport.Logger) *insights.Chain {
	primary := insights.NewOpenRouterResponder(insights.OpenRouterConfig{
		APIKey:   secrets.OpenRouterAPIKey,
		Model:    cfg.AI.Model,
		SiteURL:  cfg.AI.SiteURL,
		SiteName: cfg.AI.SiteName,
	}, nil)
	secondary := insights.NewLocalResponder(insights.LocalConfig{
		BaseURL: cfg.AI.LocalURL,
		Model:   cfg.AI.LocalModel,
	}, nil)
	executor := retry.NewExecutor(insights.NewCallClassifier(), newBackoff(cfg)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("AI call attempt %d failed (%v), retrying in %s", attempt, err, delay)
		})
	forceLocal := cfg.AI.ForceLocal || secrets.ForceLocal
	return insights.NewChain(primary, secondary, executor, logger, forceLocal)
}

func runRun(cmd *cobra.Command, args []string) error {
	sourcePath := "."
	if len(args) > 0 {
		sourcePath = args[0]
	}
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	setup, err := buildRunSetup(cmd, sourcePath, runFlags)
	if err != nil {
		return err
	}

	if runFlags.promptPassword && !runFlags.dryRun {
		password, promptErr := promptPassword("SMTP password for " + setup.cfg.SMTP.Sender + ": ")
		if promptErr != nil {
			return promptErr
		}
		setup.secrets.SMTPPassword = password
	}

	chain := newInsightsChain(setup.cfg, setup.secrets, logger)
	builder := report.NewBuilder(chain, logger)

	var sender services.Sender
	if !runFlags.dryRun {
		smtpSender, senderErr := mailer.NewSender(mailer.Config{
			Host:     setup.cfg.SMTP.Host,
			Port:     setup.cfg.SMTP.Port,
			Sender:   setup.cfg.SMTP.Sender,
			Password: setup.secrets.SMTPPassword,
		}, retry.NewExecutor(retry.NewTransportErrorClassifier(), newBackoff(setup.cfg)), logger)
		if senderErr != nil {
			return senderErr
		}
		sender = smtpSender
	}

	svc := services.NewReportService(builder, sender, logger)

	// Timeout plus signal handling for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), setup.timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling run...")
		cancel()
	}()

	result, err := svc.Run(ctx, setup.request)
	if err != nil {
		return err
	}

	printRunSummary(result)
	return nil
}
