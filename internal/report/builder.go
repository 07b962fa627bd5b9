package report

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alhadhrami/bizreport/internal/insights"
	"github.com/alhadhrami/bizreport/internal/metrics"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// InsightSource produces text for a prompt. *insights.Chain satisfies it;
// tests substitute a stub.
type InsightSource interface {
	GenerateResult(ctx context.Context, prompt string, maxTokens int) insights.Result
}

// Email is one fully assembled report ready for delivery.
type Email struct {
	// ID is the unique report identifier, rendered in the footer and
	// usable for delivery logging.
	ID uuid.UUID

	// Subject is the mail subject line.
	Subject string

	// HTML is the rendered message body.
	HTML string

	// Insights is the plain AI summary embedded in the body.
	Insights string

	// InsightsSource names the backend that produced Insights.
	InsightsSource string

	// Degraded is true when the insights section carries a diagnostic or
	// fallback answer instead of a clean summary.
	Degraded bool

	// GeneratedAt is the assembly timestamp.
	GeneratedAt time.Time
}

// Builder assembles report emails. The zero value is not usable; construct
// with NewBuilder.
type Builder struct {
	source InsightSource
	logger bizreport.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the timestamp source. Used by tests for stable
// rendering.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithIDFunc overrides report ID generation.
func WithIDFunc(newID func() uuid.UUID) BuilderOption {
	return func(b *Builder) { b.newID = newID }
}

// NewBuilder returns a Builder that sources insights and subject lines
// from src.
func NewBuilder(src InsightSource, logger bizreport.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		source: src,
		logger: logger,
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the report email for one KPI set. Trends render as
// per-metric sparkline sections and may be nil. AI degradation never
// fails the build: diagnostics render in the insights section and the
// subject falls back to the title.
func (b *Builder) Build(ctx context.Context, title string, kpis []metrics.KPI, trends []metrics.Trend, maxTokens, subjectMaxTokens int) (*Email, error) {
	body := b.source.GenerateResult(ctx, insights.BuildKPIPrompt(kpis), maxTokens)
	if body.Degraded {
		b.logf("insights degraded (source %s)", body.Source)
	}

	subject := b.subjectLine(ctx, title, subjectMaxTokens)

	id := b.newID()
	generatedAt := b.now()

	html, err := renderHTML(templateData{
		Title:       title,
		Cards:       BuildCards(kpis),
		Trends:      BuildTrends(trends),
		Insights:    body.Text,
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05"),
		ReportID:    id.String(),
	})
	if err != nil {
		return nil, err
	}

	return &Email{
		ID:             id,
		Subject:        subject,
		HTML:           html,
		Insights:       body.Text,
		InsightsSource: body.Source,
		Degraded:       body.Degraded,
		GeneratedAt:    generatedAt,
	}, nil
}

// subjectLine asks the chain for a subject and falls back to the report
// title when the answer reads as a failure or is implausibly long.
func (b *Builder) subjectLine(ctx context.Context, title string, maxTokens int) string {
	res := b.source.GenerateResult(ctx, insights.BuildSubjectPrompt(title), maxTokens)
	subject := strings.TrimSpace(res.Text)

	lower := strings.ToLower(subject)
	if res.Degraded || subject == "" || len(subject) > 100 ||
		strings.Contains(lower, "failed") || strings.Contains(lower, "error") {
		b.logf("subject generation degraded, using report title")
		return title
	}
	return subject
}

func (b *Builder) logf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Verbose(format, args...)
	}
}
