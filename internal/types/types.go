// Package types holds the shared shapes used by report generation.
package types

// GroupLine is one group's row in the rendered summary.
type GroupLine struct {
	ID    int
	Count int
	Stars int
	Avg   float64
}

// VariantSummary is one solving variant's block in the summary report.
type VariantSummary struct {
	Title     string
	Lines     []GroupLine
	Lowest    float64
	Highest   float64
	GlobalAvg float64
	StdDev    float64
}

// SummaryData is the payload for the summary template.
type SummaryData struct {
	Source       string
	Participants int
	Advantaged   int
	GroupCount   int
	Variants     []VariantSummary
}
