// ABOUTME: Utilization classification for a representative's workload
// ABOUTME: Three-factor score over deal count, pipeline value and average deal size
package workload

import (
	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
)

const (
	RecommendRedistribute = "Consider redistributing deals to reduce workload"
	RecommendCapacity     = "Has capacity for additional deals"
)

// Thresholds configures the utilization heuristic and the shift detector.
// Low bounds are inclusive on the low side, high bounds on the high side.
type Thresholds struct {
	DealsLow  int
	DealsHigh int
	ValueLow  decimal.Decimal
	ValueHigh decimal.Decimal
	AvgLow    decimal.Decimal
	AvgHigh   decimal.Decimal

	// OverloadScore is the total score at or above which a rep is "over".
	OverloadScore int
	// UnderScore is the total score at or below which a rep is "under".
	UnderScore int

	ShiftDeals int
	ShiftValue decimal.Decimal
}

// DefaultThresholds returns the historical dashboard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DealsLow:      2,
		DealsHigh:     8,
		ValueLow:      decimal.NewFromInt(50000),
		ValueHigh:     decimal.NewFromInt(200000),
		AvgLow:        decimal.NewFromInt(20000),
		AvgHigh:       decimal.NewFromInt(50000),
		OverloadScore: 2,
		UnderScore:    -1,
		ShiftDeals:    3,
		ShiftValue:    decimal.NewFromInt(100000),
	}
}

// Score is the signed per-factor breakdown, each component in {-1, 0, +1}.
type Score struct {
	DealCount int `json:"dealCountScore"`
	Value     int `json:"valueScore"`
	AvgDeal   int `json:"avgDealScore"`
}

func (s Score) Total() int {
	return s.DealCount + s.Value + s.AvgDeal
}

func bandInt(v, low, high int) int {
	switch {
	case v <= low:
		return -1
	case v >= high:
		return 1
	default:
		return 0
	}
}

func bandDecimal(v, low, high decimal.Decimal) int {
	switch {
	case v.LessThanOrEqual(low):
		return -1
	case v.GreaterThanOrEqual(high):
		return 1
	default:
		return 0
	}
}

// Score computes the three factor scores for one aggregate.
func (t Thresholds) Score(a models.WorkloadAggregate) Score {
	return Score{
		DealCount: bandInt(a.DealCount, t.DealsLow, t.DealsHigh),
		Value:     bandDecimal(a.TotalValue, t.ValueLow, t.ValueHigh),
		AvgDeal:   bandDecimal(a.AvgDealValue, t.AvgLow, t.AvgHigh),
	}
}

// Classify maps an aggregate to a utilization level and its recommendations.
func (t Thresholds) Classify(a models.WorkloadAggregate) (models.UtilizationLevel, []string) {
	total := t.Score(a).Total()
	switch {
	case total >= t.OverloadScore:
		return models.UtilizationOver, []string{RecommendRedistribute}
	case total <= t.UnderScore:
		return models.UtilizationUnder, []string{RecommendCapacity}
	default:
		return models.UtilizationBalanced, []string{}
	}
}

// Annotate fills in utilization level and recommendations for every entry
// of a snapshot, in place.
func (t Thresholds) Annotate(snapshot map[string]models.WorkloadAggregate) {
	for rep, a := range snapshot {
		a.UtilizationLevel, a.Recommendations = t.Classify(a)
		snapshot[rep] = a
	}
}

// Snapshot aggregates deals and classifies every representative.
func (t Thresholds) Snapshot(deals []models.Deal) map[string]models.WorkloadAggregate {
	snapshot := Aggregate(deals)
	t.Annotate(snapshot)
	return snapshot
}
