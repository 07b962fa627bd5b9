package insights

import (
	"fmt"
	"strings"

	"github.com/alhadhrami/bizreport/internal/metrics"
)

// BuildKPIPrompt formats the KPI set into the executive-summary prompt.
// The chain treats the result as opaque text.
func BuildKPIPrompt(kpis []metrics.KPI) string {
	var summary strings.Builder
	summary.WriteString("Business KPIs:\n")
	for _, kpi := range kpis {
		fmt.Fprintf(&summary, "- %s: %s\n", kpi.Label, kpi.FormattedValue())
	}

	return fmt.Sprintf(`Analyze these business metrics and provide a brief executive summary with actionable insights:

%s
Provide:
1. Overall performance assessment
2. Key trends and patterns
3. Areas of concern (if any)
4. Actionable recommendations

Keep it concise and business-focused.`, summary.String())
}

// BuildSubjectPrompt asks for an email subject line for the report.
func BuildSubjectPrompt(title string) string {
	return fmt.Sprintf("Create a professional email subject line for a business report titled '%s' with metrics. Keep it under 60 characters.", title)
}
