// ABOUTME: Per-representative workload aggregation over a deal collection
// ABOUTME: Pure fold producing deal counts, totals, averages, territories and stage counts
package workload

import (
	"sort"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
)

// bucket accumulates one representative's deals before finalization.
type bucket struct {
	dealCount   int
	totalValue  decimal.Decimal
	territories map[string]struct{}
	byStage     map[string]int
}

func newBucket() *bucket {
	return &bucket{
		totalValue:  decimal.Zero,
		territories: make(map[string]struct{}),
		byStage:     make(map[string]int),
	}
}

func (b *bucket) add(deal models.Deal) {
	b.dealCount++
	b.totalValue = b.totalValue.Add(deal.Value)
	if deal.Territory != "" {
		b.territories[deal.Territory] = struct{}{}
	}
	if deal.Stage != "" {
		b.byStage[deal.Stage]++
	}
}

func (b *bucket) finalize(rep string) models.WorkloadAggregate {
	territories := make([]string, 0, len(b.territories))
	for t := range b.territories {
		territories = append(territories, t)
	}
	sort.Strings(territories)

	return models.WorkloadAggregate{
		SalesRep:         rep,
		DealCount:        b.dealCount,
		TotalValue:       b.totalValue,
		AvgDealValue:     AverageValue(b.totalValue, b.dealCount),
		Territories:      territories,
		TerritoryCount:   len(territories),
		DealsByStage:     b.byStage,
		UtilizationLevel: models.UtilizationBalanced,
		Recommendations:  []string{},
	}
}

// AverageValue returns total/count rounded to the nearest whole unit, or zero
// when count is zero.
func AverageValue(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(0)
}

// Aggregate folds deals into per-representative statistics keyed by rep name.
// Deals without a resolved representative are skipped. The result does not
// depend on the order of deals.
func Aggregate(deals []models.Deal) map[string]models.WorkloadAggregate {
	return AggregateWithRoster(nil, deals)
}

// AggregateWithRoster behaves like Aggregate but first seeds a zero-valued
// entry for every name in roster, so reps without deals still appear.
func AggregateWithRoster(roster []string, deals []models.Deal) map[string]models.WorkloadAggregate {
	buckets := make(map[string]*bucket, len(roster))
	for _, name := range roster {
		if name == "" {
			continue
		}
		buckets[name] = newBucket()
	}

	for _, deal := range deals {
		rep := deal.RepName()
		if rep == "" {
			continue
		}
		b, ok := buckets[rep]
		if !ok {
			b = newBucket()
			buckets[rep] = b
		}
		b.add(deal)
	}

	result := make(map[string]models.WorkloadAggregate, len(buckets))
	for rep, b := range buckets {
		result[rep] = b.finalize(rep)
	}
	return result
}

// SortedReps returns the keys of a workload snapshot in name order.
func SortedReps(snapshots ...map[string]models.WorkloadAggregate) []string {
	seen := make(map[string]struct{})
	for _, snapshot := range snapshots {
		for rep := range snapshot {
			seen[rep] = struct{}{}
		}
	}
	reps := make([]string, 0, len(seen))
	for rep := range seen {
		reps = append(reps, rep)
	}
	sort.Strings(reps)
	return reps
}
