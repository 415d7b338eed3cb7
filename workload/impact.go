// ABOUTME: Impact summary for a candidate bulk reassignment
// ABOUTME: Counts, totals and per-deal diffs over the selected deals only
package workload

import (
	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
)

// DealChange is one field diff a bulk change would apply.
type DealChange struct {
	DealID string `json:"dealId"`
	Field  string `json:"field"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Impact summarizes what reassigning the selected deals to one rep touches.
type Impact struct {
	DealCount           int             `json:"dealCount"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	TerritoriesAffected []string        `json:"territoriesAffected"`
	RepsAffected        []string        `json:"repsAffected"`
	Changes             []DealChange    `json:"changes"`
}

// orderedSet keeps first-insertion order for stable JSON output.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func currentRep(deal models.Deal) string {
	if name := deal.RepName(); name != "" {
		return name
	}
	return models.RepUnassigned
}

// TotalValue sums the unrounded values of deals.
func TotalValue(deals []models.Deal) decimal.Decimal {
	total := decimal.Zero
	for _, deal := range deals {
		total = total.Add(deal.Value)
	}
	return total
}

// AffectedReps lists each selected deal's current rep together with the
// target, without duplicates.
func AffectedReps(selected []models.Deal, target string) []string {
	reps := newOrderedSet()
	for _, deal := range selected {
		reps.add(currentRep(deal))
		reps.add(target)
	}
	return reps.items
}

// ComputeImpact builds the impact summary of moving selected to target.
func ComputeImpact(selected []models.Deal, target string) Impact {
	territories := newOrderedSet()
	changes := []DealChange{}

	for _, deal := range selected {
		territory := deal.Territory
		if territory == "" {
			territory = models.TerritoryUnassigned
		}
		territories.add(territory)

		if from := currentRep(deal); from != target {
			changes = append(changes, DealChange{
				DealID: deal.DealID,
				Field:  models.FieldSalesRep,
				From:   from,
				To:     target,
			})
		}
	}

	return Impact{
		DealCount:           len(selected),
		TotalValue:          TotalValue(selected),
		TerritoriesAffected: territories.items,
		RepsAffected:        AffectedReps(selected, target),
		Changes:             changes,
	}
}
