// ABOUTME: Terminal rendering of workload analytics and bulk reassignment results
// ABOUTME: Provides the ASCII dashboard shared by the CLI and the TUI
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	levelStyles = map[models.UtilizationLevel]lipgloss.Style{
		models.UtilizationOver:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		models.UtilizationBalanced: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		models.UtilizationUnder:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
)

func header(out *strings.Builder, title string) {
	out.WriteString(rule + "\n")
	out.WriteString("  " + headerStyle.Render(title) + "\n")
	out.WriteString(rule + "\n\n")
}

func renderLevel(level models.UtilizationLevel) string {
	if style, ok := levelStyles[level]; ok {
		return style.Render(string(level))
	}
	return string(level)
}

func renderSeverity(severity string) string {
	if severity == models.SeverityHigh {
		return highStyle.Render(severity)
	}
	return mediumStyle.Render(severity)
}

// bar draws a 10-block bar scaled against max.
func bar(n, max int) string {
	if max <= 0 {
		max = 1
	}
	length := (n * 10) / max
	if length > 10 {
		length = 10
	}
	return strings.Repeat("█", length) + strings.Repeat("░", 10-length)
}

func nameWidth(names []string) int {
	width := 8
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	return width
}

// RenderWorkload draws the team workload report.
func RenderWorkload(report *workload.Analytics) string {
	var out strings.Builder
	header(&out, "RV PIPELINE WORKLOAD")

	names := make([]string, 0, len(report.RepWorkloads))
	maxDeals := 0
	for _, a := range report.RepWorkloads {
		names = append(names, a.SalesRep)
		if a.DealCount > maxDeals {
			maxDeals = a.DealCount
		}
	}
	width := nameWidth(names)

	out.WriteString(sectionStyle.Render("REPS") + "\n")
	for _, a := range report.RepWorkloads {
		fmt.Fprintf(&out, "  %-*s %s %3d  %12s  %s\n",
			width, a.SalesRep, bar(a.DealCount, maxDeals), a.DealCount,
			workload.FormatCurrency(a.TotalValue), renderLevel(a.UtilizationLevel))
		if len(a.Territories) > 0 {
			out.WriteString("  " + strings.Repeat(" ", width+1) +
				mutedStyle.Render(strings.Join(a.Territories, ", ")) + "\n")
		}
	}
	out.WriteString("\n")

	s := report.Summary
	out.WriteString(sectionStyle.Render("SUMMARY") + "\n")
	fmt.Fprintf(&out, "  %d deals  %s total  %d reps\n", s.TotalDeals, workload.FormatCurrency(s.TotalValue), s.TotalReps)
	fmt.Fprintf(&out, "  avg %d deals / %s per rep\n", s.AvgDealsPerRep, workload.FormatCurrency(s.AvgValuePerRep))
	fmt.Fprintf(&out, "  %d overloaded  %d underutilized\n", s.OverloadedReps, s.UnderutilizedReps)

	if len(report.Recommendations) > 0 {
		out.WriteString("\n" + sectionStyle.Render("RECOMMENDATIONS") + "\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&out, "  [%s] %s\n", renderSeverity(r.Priority), r.Description)
		}
	}

	return out.String()
}

// RenderTerritories draws per-territory deal counts and values.
func RenderTerritories(stats []workload.TerritoryStats) string {
	var out strings.Builder
	header(&out, "TERRITORIES")

	names := make([]string, 0, len(stats))
	maxDeals := 0
	for _, t := range stats {
		names = append(names, t.Territory)
		if t.TotalDeals > maxDeals {
			maxDeals = t.TotalDeals
		}
	}
	width := nameWidth(names)

	for _, t := range stats {
		fmt.Fprintf(&out, "  %-*s %s %3d  %12s  %3d%%  %s\n",
			width, t.Territory, bar(t.TotalDeals, maxDeals), t.TotalDeals,
			workload.FormatCurrency(t.TotalValue), t.AvgProbability,
			mutedStyle.Render(strings.Join(t.SalesReps, ", ")))
	}
	return out.String()
}

// RenderPreview draws the impact report of a candidate bulk reassignment,
// with a before and after line for every affected rep.
func RenderPreview(result *pipeline.PreviewResult) string {
	var out strings.Builder
	header(&out, "BULK REASSIGNMENT PREVIEW")

	fmt.Fprintf(&out, "  %d deals  %s\n", result.Summary.TotalDeals, workload.FormatCurrency(result.Summary.TotalValue))
	fmt.Fprintf(&out, "  territories: %s\n\n", strings.Join(result.Impact.TerritoriesAffected, ", "))

	out.WriteString(sectionStyle.Render("CHANGES") + "\n")
	if len(result.Impact.Changes) == 0 {
		out.WriteString(mutedStyle.Render("  nothing to change") + "\n")
	}
	for _, c := range result.Impact.Changes {
		fmt.Fprintf(&out, "  %s  %s -> %s\n", c.DealID, c.From, c.To)
	}
	out.WriteString("\n")

	width := nameWidth(result.Summary.AffectedReps)
	out.WriteString(sectionStyle.Render("WORKLOAD") + "\n")
	for _, rep := range result.Summary.AffectedReps {
		before := result.CurrentWorkload[rep]
		after := result.ProjectedWorkload[rep]
		fmt.Fprintf(&out, "  %-*s %3d -> %-3d %12s -> %-12s %s -> %s\n",
			width, rep, before.DealCount, after.DealCount,
			workload.FormatCurrency(before.TotalValue), workload.FormatCurrency(after.TotalValue),
			renderLevel(before.UtilizationLevel), renderLevel(after.UtilizationLevel))
	}

	if len(result.Conflicts) > 0 {
		out.WriteString("\n" + sectionStyle.Render("CONFLICTS") + "\n")
		for _, c := range result.Conflicts {
			fmt.Fprintf(&out, "  ⚠️  [%s] %s\n", renderSeverity(c.Severity), c.Message)
			if c.Suggestion != "" {
				out.WriteString("     " + mutedStyle.Render(c.Suggestion) + "\n")
			}
		}
	}

	if len(result.Warnings) > 0 {
		out.WriteString("\n" + sectionStyle.Render("WARNINGS") + "\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&out, "  [%s] %s\n", renderSeverity(w.Severity), w.Message)
		}
	}

	return out.String()
}

// RenderExecution summarizes a completed bulk reassignment.
func RenderExecution(result *pipeline.ExecutionResult) string {
	var out strings.Builder
	out.WriteString(headerStyle.Render(result.Message) + "\n")
	fmt.Fprintf(&out, "  batch:   %s\n", result.BatchID)
	fmt.Fprintf(&out, "  updated: %d of %d deals\n", result.UpdatedDeals, result.Summary.TotalDeals)
	fmt.Fprintf(&out, "  audit:   %d entries\n", result.AuditEntries)
	return out.String()
}

// RenderAuditTrail lists audit entries, newest first.
func RenderAuditTrail(logs []models.AuditLog) string {
	var out strings.Builder
	header(&out, "AUDIT TRAIL")

	if len(logs) == 0 {
		out.WriteString(mutedStyle.Render("  no changes recorded") + "\n")
		return out.String()
	}

	for _, l := range logs {
		oldValue, newValue := "-", "-"
		if l.OldValue != nil {
			oldValue = *l.OldValue
		}
		if l.NewValue != nil {
			newValue = *l.NewValue
		}
		fmt.Fprintf(&out, "  %s  %-7s %-6s %s: %s -> %s  (%s)\n",
			l.ChangedAt.Format("2006-01-02 15:04"), l.DealIdentifier, l.ChangeType,
			l.FieldChanged, oldValue, newValue, l.ChangedBy)
		if l.Reason != "" {
			out.WriteString("  " + mutedStyle.Render(l.Reason) + "\n")
		}
	}
	return out.String()
}
