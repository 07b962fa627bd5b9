package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alhadhrami/bizreport/internal/checksum"
	"github.com/alhadhrami/bizreport/internal/logging"
	"github.com/alhadhrami/bizreport/internal/mailer"
	"github.com/alhadhrami/bizreport/internal/report"
	"github.com/alhadhrami/bizreport/internal/retry"
	"github.com/alhadhrami/bizreport/internal/schedule"
	"github.com/alhadhrami/bizreport/internal/services"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [project_path]",
	Short: "Run reports on the configured cadence",
	Long: `Schedule runs the report repeatedly on the cadence configured in
bizreport.yaml and blocks until interrupted.

Cadence (report.frequency + report.time):
  daily     every day at the configured time
  weekly    Mondays at the configured time
  monthly   the 1st of each month at the configured time

A failed run is logged and does not stop the schedule. Stop with Ctrl+C.

Examples:
  bizreport schedule .
  bizreport schedule ./reports --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchedule,
}

var scheduleDryRun bool

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleDryRun, "dry-run", false,
		"Save each scheduled report to disk instead of sending email")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	sourcePath := "."
	if len(args) > 0 {
		sourcePath = args[0]
	}
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	setup, err := buildRunSetup(cmd, sourcePath, runFlagValues{dryRun: scheduleDryRun})
	if err != nil {
		return err
	}

	var sender services.Sender
	if !scheduleDryRun {
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

	// Skip a tick when the data file carries the same rows as the last
	// report; a formatting-only change does not count as new data.
	calculator := checksum.New()
	var lastChecksum string

	job := func(ctx context.Context) error {
		sum, sumErr := calculator.FileNormalized(setup.request.DataPath)
		if sumErr == nil {
			if sum == lastChecksum {
				logger.Info("Data unchanged since last report, skipping run")
				return nil
			}
		} else {
			logger.Verbose("could not fingerprint data file: %v", sumErr)
		}

		// Each run rebuilds the chain so the local-runtime probe is fresh
		chain := newInsightsChain(setup.cfg, setup.secrets, logger)
		builder := report.NewBuilder(chain, logger)
		svc := services.NewReportService(builder, sender, logger)

		runCtx, cancel := context.WithTimeout(ctx, setup.timeout)
		defer cancel()

		result, runErr := svc.Run(runCtx, setup.request)
		if runErr != nil {
			return runErr
		}
		if sumErr == nil {
			lastChecksum = sum
		}
		printRunSummary(result)
		return nil
	}

	scheduler, err := schedule.New(setup.cfg.Report.Frequency, setup.cfg.Report.Time, job, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Stopping scheduler...")
		cancel()
	}()

	logger.Info("Scheduled %s report at %s (%s)", setup.cfg.Report.Frequency, setup.cfg.Report.Time, bizreport.ConfigFileName)
	scheduler.Run(ctx)
	logger.Info("Scheduler stopped")
	return nil
}
