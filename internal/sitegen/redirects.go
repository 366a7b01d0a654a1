/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package sitegen

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/docguard/internal/dedupe"
)

// RedirectTable renders the human-readable redirect table, regenerated
// in full on every run. Columns are width-aligned so the raw markdown is
// readable without rendering.
func RedirectTable(plan *dedupe.Plan) string {
	var b strings.Builder
	b.WriteString("# Redirects\n\n")
	if plan == nil || len(plan.Redirects) == 0 {
		b.WriteString("No redirects.\n")
		return b.String()
	}

	headers := []string{"From", "To", "Reason"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	rows := make([][]string, 0, len(plan.Redirects))
	for _, r := range plan.Redirects {
		row := []string{r.From, r.To, r.Reason}
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row)
	}

	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(" " + strings.Repeat("-", w) + " |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	fmt.Fprintf(&b, "\n%d redirects.\n", len(rows))
	return b.String()
}
