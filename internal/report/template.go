package report

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/alhadhrami/bizreport/internal/metrics"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templateFS, "templates/email.html.tmpl"))

// MaxCards caps how many KPI cards the email renders. The full KPI list
// still feeds the insights prompt; the grid only shows the headline set.
const MaxCards = 6

// Card is one rendered KPI cell in the email grid.
type Card struct {
	Label string
	Value string

	// Tone is a CSS class hint for growth figures: "positive", "negative",
	// or empty for neutral values.
	Tone string
}

// templateData is the root object handed to the email template.
type templateData struct {
	Title       string
	Cards       []Card
	Trends      []TrendView
	Insights    string
	GeneratedAt string
	ReportID    string
}

// BuildCards converts the headline KPIs into renderable cards, applying
// the display cap and growth-rate coloring.
func BuildCards(kpis []metrics.KPI) []Card {
	cards := make([]Card, 0, MaxCards)
	for _, kpi := range kpis {
		if len(cards) == MaxCards {
			break
		}
		cards = append(cards, Card{
			Label: kpi.Label,
			Value: kpi.FormattedValue(),
			Tone:  toneFor(kpi),
		})
	}
	return cards
}

func toneFor(kpi metrics.KPI) string {
	if !strings.HasSuffix(kpi.Suffix, "%") || math.IsNaN(kpi.Value) {
		return ""
	}
	switch {
	case kpi.Value > 0:
		return "positive"
	case kpi.Value < 0:
		return "negative"
	}
	return ""
}

// renderHTML executes the embedded email template.
func renderHTML(data templateData) (string, error) {
	var buf strings.Builder
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering report template: %w", err)
	}
	return buf.String(), nil
}
