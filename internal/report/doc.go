// Package report assembles the HTML business report email from computed
// KPIs and AI-generated insights. Rendering uses an embedded template so
// the binary stays self-contained.
package report
