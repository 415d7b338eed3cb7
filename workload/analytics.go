// ABOUTME: Team-level workload and territory analytics
// ABOUTME: Builds the dashboard report with per-rep utilization and team recommendations
package workload

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
)

// TeamRecommendation is an action suggested for the whole team.
type TeamRecommendation struct {
	Type         string   `json:"type"`
	Priority     string   `json:"priority"`
	Description  string   `json:"description"`
	AffectedReps []string `json:"affectedReps"`
}

type AnalyticsSummary struct {
	TotalDeals        int             `json:"totalDeals"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	TotalReps         int             `json:"totalReps"`
	AvgDealsPerRep    int64           `json:"avgDealsPerRep"`
	AvgValuePerRep    decimal.Decimal `json:"avgValuePerRep"`
	OverloadedReps    int             `json:"overloadedReps"`
	UnderutilizedReps int             `json:"underutilizedReps"`
}

// Analytics is the workload dashboard report.
type Analytics struct {
	Summary         AnalyticsSummary           `json:"summary"`
	RepWorkloads    []models.WorkloadAggregate `json:"repWorkloads"`
	Recommendations []TeamRecommendation       `json:"recommendations"`
}

// Analyze builds the workload report for roster over deals. Every roster
// member appears, including those with no deals. Reps are ordered by deal
// count descending, then by name.
func (t Thresholds) Analyze(roster []string, deals []models.Deal) Analytics {
	snapshot := AggregateWithRoster(roster, deals)
	t.Annotate(snapshot)

	reps := make([]models.WorkloadAggregate, 0, len(snapshot))
	for _, a := range snapshot {
		reps = append(reps, a)
	}
	sort.Slice(reps, func(i, j int) bool {
		if reps[i].DealCount != reps[j].DealCount {
			return reps[i].DealCount > reps[j].DealCount
		}
		return reps[i].SalesRep < reps[j].SalesRep
	})

	var over, under []string
	for _, a := range reps {
		switch a.UtilizationLevel {
		case models.UtilizationOver:
			over = append(over, a.SalesRep)
		case models.UtilizationUnder:
			under = append(under, a.SalesRep)
		}
	}

	recommendations := []TeamRecommendation{}
	if len(over) > 0 && len(under) > 0 {
		affected := append(append([]string{}, over...), under...)
		recommendations = append(recommendations, TeamRecommendation{
			Type:         "redistribute",
			Priority:     "high",
			Description:  fmt.Sprintf("Redistribute deals from %s to %s", strings.Join(over, ", "), strings.Join(under, ", ")),
			AffectedReps: affected,
		})
	}
	if len(over) > len(under) {
		recommendations = append(recommendations, TeamRecommendation{
			Type:         "hire",
			Priority:     "medium",
			Description:  "Consider hiring additional sales reps to handle current workload",
			AffectedReps: over,
		})
	}

	totalValue := TotalValue(deals)
	summary := AnalyticsSummary{
		TotalDeals:        len(deals),
		TotalValue:        totalValue,
		TotalReps:         len(reps),
		AvgDealsPerRep:    AverageValue(decimal.NewFromInt(int64(len(deals))), len(reps)).IntPart(),
		AvgValuePerRep:    AverageValue(totalValue, len(reps)),
		OverloadedReps:    len(over),
		UnderutilizedReps: len(under),
	}

	return Analytics{
		Summary:         summary,
		RepWorkloads:    reps,
		Recommendations: recommendations,
	}
}

// TerritoryStats aggregates deals that share a territory.
type TerritoryStats struct {
	Territory      string          `json:"territory"`
	TotalDeals     int             `json:"totalDeals"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	AvgProbability int64           `json:"avgProbability"`
	SalesReps      []string        `json:"salesReps"`
	RepCount       int             `json:"repCount"`
	DealsByStage   map[string]int  `json:"dealsByStage"`
}

// TerritoryBreakdown groups deals by territory, with unset territories under
// the Unassigned sentinel. Results are ordered by territory name.
func TerritoryBreakdown(deals []models.Deal) []TerritoryStats {
	type acc struct {
		stats       TerritoryStats
		probability int64
		reps        *orderedSet
	}
	groups := make(map[string]*acc)

	for _, deal := range deals {
		territory := deal.Territory
		if territory == "" {
			territory = models.TerritoryUnassigned
		}
		g, ok := groups[territory]
		if !ok {
			g = &acc{
				stats: TerritoryStats{
					Territory:    territory,
					TotalValue:   decimal.Zero,
					DealsByStage: make(map[string]int),
				},
				reps: newOrderedSet(),
			}
			groups[territory] = g
		}
		g.stats.TotalDeals++
		g.stats.TotalValue = g.stats.TotalValue.Add(deal.Value)
		g.stats.DealsByStage[deal.Stage]++
		g.probability += int64(deal.Probability)
		if name := deal.RepName(); name != "" {
			g.reps.add(name)
		}
	}

	out := make([]TerritoryStats, 0, len(groups))
	for _, g := range groups {
		g.stats.AvgProbability = AverageValue(decimal.NewFromInt(g.probability), g.stats.TotalDeals).IntPart()
		g.stats.SalesReps = g.reps.items
		g.stats.RepCount = len(g.reps.items)
		out = append(out, g.stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Territory < out[j].Territory })
	return out
}
