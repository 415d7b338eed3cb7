// ABOUTME: Conflict and warning detection between workload snapshots
// ABOUTME: Flags projected overloads and large per-rep deal or value shifts
package workload

import (
	"fmt"

	"github.com/nehemiah-ic/rv-takehome/models"
)

// DetectConflicts reports every representative whose projected workload
// scores as overloaded. Results are ordered by rep name.
func (t Thresholds) DetectConflicts(projected map[string]models.WorkloadAggregate) []models.Conflict {
	conflicts := []models.Conflict{}
	for _, rep := range SortedReps(projected) {
		data := projected[rep]
		if t.Score(data).Total() < t.OverloadScore {
			continue
		}
		conflicts = append(conflicts, models.Conflict{
			Type:     models.ConflictOverload,
			Rep:      rep,
			Severity: models.SeverityHigh,
			Message: fmt.Sprintf("%s would be overloaded: %d deals, %s pipeline",
				rep, data.DealCount, FormatCurrency(data.TotalValue)),
			Suggestion: "Consider distributing some deals to other reps",
		})
	}
	return conflicts
}

// DetectWarnings compares current and projected snapshots over the union of
// their reps. A rep missing from one side counts as zero deals and zero value.
func (t Thresholds) DetectWarnings(current, projected map[string]models.WorkloadAggregate) []models.Warning {
	warnings := []models.Warning{}
	for _, rep := range SortedReps(current, projected) {
		before := current[rep]
		after := projected[rep]

		dealChange := after.DealCount - before.DealCount
		if abs(dealChange) >= t.ShiftDeals {
			warnings = append(warnings, models.Warning{
				Type:     models.WarningWorkloadShift,
				Rep:      rep,
				Severity: models.SeverityMedium,
				Message:  fmt.Sprintf("%s workload %s by %d deals", rep, direction(dealChange > 0), abs(dealChange)),
				Details:  fmt.Sprintf("From %d to %d deals", before.DealCount, after.DealCount),
			})
		}

		valueChange := after.TotalValue.Sub(before.TotalValue)
		if valueChange.Abs().GreaterThanOrEqual(t.ShiftValue) {
			warnings = append(warnings, models.Warning{
				Type:     models.WarningValueShift,
				Rep:      rep,
				Severity: models.SeverityMedium,
				Message: fmt.Sprintf("%s pipeline %s by %s",
					rep, direction(valueChange.IsPositive()), FormatCurrency(valueChange.Abs())),
				Details: fmt.Sprintf("From %s to %s",
					FormatCurrency(before.TotalValue), FormatCurrency(after.TotalValue)),
			})
		}
	}
	return warnings
}

func direction(up bool) string {
	if up {
		return "increases"
	}
	return "decreases"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
