package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alhadhrami/bizreport/internal/services"
	"github.com/alhadhrami/bizreport/internal/tui"
)

// printRunSummary writes the human-facing run summary to stderr. Styled
// output only when a human is at the terminal; plain text for pipes and CI.
func printRunSummary(result *services.RunResult) {
	styled := tui.IsInteractive()

	var b strings.Builder
	check := tui.SymbolCheck + " "
	if !styled {
		check = ""
	}

	if result.Sent {
		fmt.Fprintf(&b, "%sReport sent\n", check)
	} else {
		fmt.Fprintf(&b, "%sDry run complete\n", check)
	}

	row := func(label, value string) {
		if styled {
			fmt.Fprintf(&b, "  %s %s\n", tui.LabelStyle.Render(label+":"), tui.ValueStyle.Render(value))
		} else {
			fmt.Fprintf(&b, "  %s: %s\n", label, value)
		}
	}

	row("Subject", result.Email.Subject)
	row("Report ID", result.Email.ID.String())
	row("Data rows", fmt.Sprintf("%d", result.Rows))
	if result.Email.Degraded {
		warn := "AI insights degraded (see report body)"
		if styled {
			warn = tui.WarningStyle.Render(warn)
		}
		fmt.Fprintf(&b, "  %s\n", warn)
	} else {
		row("Insights from", result.Email.InsightsSource)
	}
	if result.OutputPath != "" {
		row("Saved to", result.OutputPath)
	}

	out := b.String()
	if styled {
		out = tui.SuccessStyle.Render(strings.SplitN(out, "\n", 2)[0]) + "\n" + strings.SplitN(out, "\n", 2)[1]
	}
	fmt.Fprint(os.Stderr, out)
}
