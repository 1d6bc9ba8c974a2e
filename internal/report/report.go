// Package report writes solver results as CSV group sheets plus a rendered
// text summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/genes3e7/Group-Balancer/internal/templates"
	"github.com/genes3e7/Group-Balancer/internal/types"
	"github.com/genes3e7/Group-Balancer/pkg/balancer"
)

// Output file names inside the report directory.
const (
	ConstrainedSheet   = "with_star_constraint.csv"
	UnconstrainedSheet = "no_constraints.csv"
	SummaryFile        = "summary.txt"
)

const (
	constrainedTitle   = "With_Star_Constraint"
	unconstrainedTitle = "No_Constraints"
)

// Writer renders results into a directory.
type Writer struct {
	Dir      string
	Template string // summary template override; empty uses the embedded one
}

// Write emits one CSV sheet per variant and the text summary.
func (w *Writer) Write(source string, constrained, unconstrained balancer.Result) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeSheet(filepath.Join(w.Dir, ConstrainedSheet), constrained); err != nil {
		return err
	}
	if err := writeSheet(filepath.Join(w.Dir, UnconstrainedSheet), unconstrained); err != nil {
		return err
	}

	data := BuildSummary(source, constrained, unconstrained)
	text, err := RenderSummary(w.Template, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(w.Dir, SummaryFile), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// BuildSummary assembles the template payload from the two results.
func BuildSummary(source string, constrained, unconstrained balancer.Result) types.SummaryData {
	total, stars := 0, 0
	for i := range constrained.Groups {
		g := &constrained.Groups[i]
		total += len(g.Members)
		for _, m := range g.Members {
			if m.Advantaged {
				stars++
			}
		}
	}
	return types.SummaryData{
		Source:       source,
		Participants: total,
		Advantaged:   stars,
		GroupCount:   len(constrained.Groups),
		Variants: []types.VariantSummary{
			variantSummary(constrainedTitle, constrained),
			variantSummary(unconstrainedTitle, unconstrained),
		},
	}
}

// RenderSummary executes the summary template over data. An empty tmpl uses
// the embedded default.
func RenderSummary(tmpl string, data types.SummaryData) (string, error) {
	if tmpl == "" {
		tmpl = templates.SummaryTemplate()
	}
	t, err := template.New(SummaryFile).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse summary template: %w", err)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute summary template: %w", err)
	}
	return buf.String(), nil
}

func variantSummary(title string, res balancer.Result) types.VariantSummary {
	vs := types.VariantSummary{Title: title, StdDev: res.StdDev}
	first := true
	sum := 0.0
	populated := 0
	for i := range res.Groups {
		g := &res.Groups[i]
		stars := 0
		for _, m := range g.Members {
			if m.Advantaged {
				stars++
			}
		}
		vs.Lines = append(vs.Lines, types.GroupLine{
			ID:    g.ID,
			Count: len(g.Members),
			Stars: stars,
			Avg:   g.Avg,
		})
		if len(g.Members) == 0 {
			continue
		}
		if first || g.Avg < vs.Lowest {
			vs.Lowest = g.Avg
		}
		if first || g.Avg > vs.Highest {
			vs.Highest = g.Avg
		}
		first = false
		sum += g.Avg
		populated++
	}
	if populated > 0 {
		vs.GlobalAvg = sum / float64(populated)
	}
	return vs
}

// writeSheet lays groups out side by side in pairs, the same shape the
// original spreadsheet output used, followed by a small stats block.
func writeSheet(path string, res balancer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	groups := res.Groups

	for i := 0; i < len(groups); i += 2 {
		g1 := &groups[i]
		var g2 *balancer.Group
		if i+1 < len(groups) {
			g2 = &groups[i+1]
		}

		header := []string{fmt.Sprintf("GROUP %d", g1.ID), fmt.Sprintf("AVG: %.2f", g1.Avg), "", "", ""}
		sub := []string{"Name", "Score", "", "", ""}
		if g2 != nil {
			header[3] = fmt.Sprintf("GROUP %d", g2.ID)
			header[4] = fmt.Sprintf("AVG: %.2f", g2.Avg)
			sub[3], sub[4] = "Name", "Score"
		}
		if err := w.Write(header); err != nil {
			return err
		}
		if err := w.Write(sub); err != nil {
			return err
		}

		rows := len(g1.Members)
		if g2 != nil && len(g2.Members) > rows {
			rows = len(g2.Members)
		}
		for k := 0; k < rows; k++ {
			row := []string{"", "", "", "", ""}
			if k < len(g1.Members) {
				row[0] = g1.Members[k].Name
				row[1] = formatScore(g1.Members[k].Score)
			}
			if g2 != nil && k < len(g2.Members) {
				row[3] = g2.Members[k].Name
				row[4] = formatScore(g2.Members[k].Score)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if err := w.Write([]string{"", "", "", "", ""}); err != nil {
			return err
		}
	}

	vs := variantSummary("", res)
	stats := [][2]string{
		{"Lowest", fmt.Sprintf("%.3f", vs.Lowest)},
		{"Highest", fmt.Sprintf("%.3f", vs.Highest)},
		{"Global Avg", fmt.Sprintf("%.3f", vs.GlobalAvg)},
		{"StdDev", fmt.Sprintf("%.4f", res.StdDev)},
	}
	for _, s := range stats {
		if err := w.Write([]string{s[0], s[1]}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}
