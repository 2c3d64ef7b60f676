package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/upandey0/eval-sys/internal/models"
)

type summaryWriter struct {
	out io.Writer
}

// Write renders a plain-text digest: counts, averages, the per-field
// percentage distributions and the failed sessions with their reasons.
func (w *summaryWriter) Write(report models.BatchReport) error {
	var b strings.Builder

	b.WriteString("Session Quality Report\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Sessions:      %d total, %d scored, %d failed\n",
		report.TotalSessions, report.Processed, report.Failed)
	fmt.Fprintf(&b, "Average score: %.2f\n", report.AverageScore)
	fmt.Fprintf(&b, "Elapsed:       %d ms\n\n", report.ElapsedMs)

	fmt.Fprintf(&b, "Avg experience level: %.2f\n", report.Aggregate.AvgExperienceLevel)
	fmt.Fprintf(&b, "Avg effort level:     %.2f\n\n", report.Aggregate.AvgEffortLevel)

	for _, group := range distributions(report.Aggregate) {
		fmt.Fprintf(&b, "%-20s %s\n", group.Name+":", formatDist(group.Dist))
	}

	if report.Failed > 0 {
		b.WriteString("\nFailed sessions:\n")
		for _, res := range report.Results {
			if res.Failed() {
				id := res.SessionID
				if id == "" {
					id = "<unknown>"
				}
				fmt.Fprintf(&b, "  %s: %s\n", id, res.Error)
			}
		}
	}

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func formatDist(dist map[string]int) string {
	if len(dist) == 0 {
		return "-"
	}

	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d%%", k, dist[k]))
	}
	return strings.Join(parts, ", ")
}
