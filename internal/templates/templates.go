// Package templates provides the embedded report templates.
package templates

import _ "embed"

//go:embed summary.txt.tmpl
var summaryTemplate string

// SummaryTemplate returns the default summary report template.
func SummaryTemplate() string {
	return summaryTemplate
}
