// Package services wires the report pipeline: load data, compute KPIs,
// build the email, then send it or save it to disk.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alhadhrami/bizreport/internal/mailer"
	"github.com/alhadhrami/bizreport/internal/metrics"
	"github.com/alhadhrami/bizreport/internal/report"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// DefaultOutputPath is where dry runs save the rendered report.
const DefaultOutputPath = "output/report.html"

// ReportBuilder assembles the report email. *report.Builder satisfies it.
type ReportBuilder interface {
	Build(ctx context.Context, title string, kpis []metrics.KPI, trends []metrics.Trend, maxTokens, subjectMaxTokens int) (*report.Email, error)
}

// Sender delivers one assembled message. *mailer.Sender satisfies it.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// RunRequest carries one report run's resolved settings.
type RunRequest struct {
	// DataPath is the CSV file to load.
	DataPath string

	// Title is the report heading; empty gets the dated default.
	Title string

	// Recipients receive the report when not a dry run.
	Recipients []string

	// DryRun saves the rendered HTML instead of sending it.
	DryRun bool

	// OutputPath overrides where a dry run saves the report.
	OutputPath string

	// MaxTokens / SubjectMaxTokens bound the AI generation calls.
	MaxTokens        int
	SubjectMaxTokens int
}

// RunResult reports what one run produced.
type RunResult struct {
	Email      *report.Email
	KPIs       []metrics.KPI
	Rows       int
	OutputPath string
	Sent       bool
}

// ReportService runs the pipeline end to end.
// Thread-Safety: safe for concurrent Run() calls; all state is per-call.
type ReportService struct {
	builder ReportBuilder
	sender  Sender
	logger  bizreport.Logger
	now     func() time.Time
}

// NewReportService creates a ReportService with all dependencies injected.
// The builder and logger are required; sender may be nil for dry-run-only
// use. Nil required dependencies are programmer errors and panic at
// construction rather than surfacing as nil dereferences mid-run.
func NewReportService(builder ReportBuilder, sender Sender, logger bizreport.Logger) *ReportService {
	if builder == nil {
		panic("builder cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReportService{
		builder: builder,
		sender:  sender,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one report run. AI degradation is never fatal: the report
// still renders and delivers with diagnostic insights. Data and delivery
// failures are.
func (s *ReportService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	s.logger.Info("Loading business data from %s", req.DataPath)
	dataset, err := metrics.LoadCSV(req.DataPath)
	if err != nil {
		return nil, err
	}
	dates := dataset.Dates()
	s.logger.Verbose("Loaded %d rows, date range %s to %s",
		dataset.Len(),
		dates[0].Format("2006-01-02"),
		dates[len(dates)-1].Format("2006-01-02"))

	s.logger.Info("Calculating KPIs")
	kpis := dataset.KPIs()
	for _, kpi := range kpis {
		s.logger.Verbose("  %s: %s", kpi.Label, kpi.FormattedValue())
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Business Performance Report - %s", s.now().Format("January 2, 2006"))
	}

	trends := dataset.Trends(metrics.DefaultTrendWindow)

	s.logger.Info("Generating report")
	email, err := s.builder.Build(ctx, title, kpis, trends, req.MaxTokens, req.SubjectMaxTokens)
	if err != nil {
		return nil, err
	}
	if email.Degraded {
		s.logger.Info("AI insights degraded; report carries diagnostic text")
	}

	result := &RunResult{Email: email, KPIs: kpis, Rows: dataset.Len()}

	if req.DryRun {
		outputPath := req.OutputPath
		if outputPath == "" {
			outputPath = DefaultOutputPath
		}
		if err := saveHTML(outputPath, email.HTML); err != nil {
			return nil, err
		}
		s.logger.Info("Report saved to %s", outputPath)
		result.OutputPath = outputPath
		return result, nil
	}

	if s.sender == nil {
		return nil, fmt.Errorf("%w: no mail transport configured", bizreport.ErrInvalidConfig)
	}
	s.logger.Info("Sending report to %d recipient(s)", len(req.Recipients))
	err = s.sender.Send(ctx, mailer.Message{
		Subject:    email.Subject,
		HTMLBody:   email.HTML,
		Recipients: req.Recipients,
	})
	if err != nil {
		return nil, err
	}
	result.Sent = true
	return result, nil
}

func saveHTML(path, html string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
