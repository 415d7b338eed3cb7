// ABOUTME: Sample roster and deals for a fresh pipeline database
// ABOUTME: Seeding replaces all reps and deals; territory comes from the origin city
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
)

// TerritoryOther is assigned to deals whose origin city has no mapping.
const TerritoryOther = "Other"

var cityTerritories = []struct {
	territory string
	cities    []string
}{
	{"West Coast", []string{"los angeles", "seattle", "san francisco", "portland", "sacramento"}},
	{"East Coast", []string{"new york", "boston", "miami", "philadelphia", "atlanta"}},
	{"Midwest", []string{"chicago", "detroit", "minneapolis", "milwaukee", "cleveland"}},
	{"South", []string{"houston", "dallas", "austin"}},
	{"Southwest", []string{"phoenix", "las vegas", "albuquerque"}},
	{"Mountain West", []string{"denver", "salt lake", "colorado springs"}},
}

// AssignTerritory maps an origin city such as "Denver, CO" to its sales
// territory. Matching is case-insensitive on the city name.
func AssignTerritory(originCity string) string {
	city := strings.ToLower(originCity)
	for _, group := range cityTerritories {
		for _, name := range group.cities {
			if strings.Contains(city, name) {
				return group.territory
			}
		}
	}
	return TerritoryOther
}

type seedDeal struct {
	dealID, company, contact, mode, stage string
	value, probability                     int64
	created, updated, expectedClose        string
	rep, origin, destination, cargo        string
}

var seedSalesReps = []models.SalesRep{
	{Name: "Mike Rodriguez", Email: "mike.rodriguez@revenuevessel.com", Territory: "West Coast", Active: true},
	{Name: "Jennifer Walsh", Email: "jennifer.walsh@revenuevessel.com", Territory: "Mountain West", Active: true},
	{Name: "Tom Wilson", Email: "tom.wilson@revenuevessel.com", Territory: "East Coast", Active: true},
	{Name: "Lisa Anderson", Email: "lisa.anderson@revenuevessel.com", Territory: "Midwest", Active: true},
	{Name: "Sarah Johnson", Email: "sarah.johnson@revenuevessel.com", Territory: "South", Active: true},
	{Name: "Diana Prince", Email: "diana.prince@revenuevessel.com", Territory: "Southwest", Active: true},
}

var seedDeals = []seedDeal{
	{"RV-001", "Pacific Logistics Inc", "Sarah Chen", "ocean", models.StageProposal, 45000, 70,
		"2024-10-15T09:00:00Z", "2024-11-28T14:30:00Z", "2024-12-15T00:00:00Z",
		"Mike Rodriguez", "Los Angeles, CA", "Shanghai, China", "Electronics"},
	{"RV-002", "Mountain Transport Co", "David Park", "trucking", models.StageNegotiation, 12000, 85,
		"2024-11-01T11:15:00Z", "2024-12-03T16:45:00Z", "2024-12-10T00:00:00Z",
		"Jennifer Walsh", "Denver, CO", "Phoenix, AZ", "Machinery"},
	{"RV-003", "Global Freight Solutions", "Maria Rodriguez", "air", models.StageProspect, 75000, 30,
		"2024-11-20T08:30:00Z", "2024-11-25T10:15:00Z", "2025-01-20T00:00:00Z",
		"Tom Wilson", "Miami, FL", "London, UK", "Pharmaceuticals"},
	{"RV-004", "Midwest Rail Corp", "James Thompson", "rail", models.StageQualified, 28000, 60,
		"2024-11-10T14:20:00Z", "2024-11-30T09:45:00Z", "2024-12-25T00:00:00Z",
		"Lisa Anderson", "Chicago, IL", "Houston, TX", "Automotive Parts"},
	{"RV-005", "Coastal Shipping LLC", "Robert Kim", "ocean", models.StageClosedWon, 95000, 100,
		"2024-10-05T12:00:00Z", "2024-11-15T16:30:00Z", "2024-11-30T00:00:00Z",
		"Mike Rodriguez", "Seattle, WA", "Tokyo, Japan", "Consumer Goods"},
	{"RV-006", "Express Trucking Inc", "Amanda Foster", "trucking", models.StageClosedLost, 18000, 0,
		"2024-09-15T10:30:00Z", "2024-11-20T14:00:00Z", "2024-11-01T00:00:00Z",
		"Jennifer Walsh", "Atlanta, GA", "New York, NY", "Food Products"},
	{"RV-007", "International Air Cargo", "Carlos Mendez", "air", models.StageProposal, 52000, 65,
		"2024-11-05T09:15:00Z", "2024-12-01T11:20:00Z", "2024-12-20T00:00:00Z",
		"Tom Wilson", "Dallas, TX", "Frankfurt, Germany", "Technology Equipment"},
	{"RV-008", "Northern Rail Services", "Emily Johnson", "rail", models.StageProspect, 33000, 25,
		"2024-11-25T13:45:00Z", "2024-12-02T15:30:00Z", "2025-01-15T00:00:00Z",
		"Lisa Anderson", "Minneapolis, MN", "Portland, OR", "Raw Materials"},
	{"RV-009", "Atlantic Shipping Co", "Michael Brown", "ocean", models.StageQualified, 67000, 55,
		"2024-10-20T11:00:00Z", "2024-11-28T13:15:00Z", "2024-12-30T00:00:00Z",
		"Mike Rodriguez", "Boston, MA", "Rotterdam, Netherlands", "Industrial Equipment"},
	{"RV-010", "Southwest Logistics", "Jessica Martinez", "trucking", models.StageNegotiation, 22000, 80,
		"2024-11-12T16:20:00Z", "2024-12-04T10:45:00Z", "2024-12-18T00:00:00Z",
		"Jennifer Walsh", "Phoenix, AZ", "Las Vegas, NV", "Construction Materials"},
}

// SeedResult counts what a seed run inserted.
type SeedResult struct {
	Deals     int `json:"deals"`
	SalesReps int `json:"salesReps"`
}

// Seed replaces every deal and sales rep with the sample data set. The audit
// log is left untouched. Running it twice yields the same data.
func (r *Repository) Seed(ctx context.Context) (*SeedResult, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deals`); err != nil {
		return nil, fmt.Errorf("failed to clear deals: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales_reps`); err != nil {
		return nil, fmt.Errorf("failed to clear sales reps: %w", err)
	}

	repIDs := make(map[string]int64, len(seedSalesReps))
	for _, rep := range seedSalesReps {
		rep := rep
		if err := insertSalesRep(ctx, tx, &rep); err != nil {
			return nil, fmt.Errorf("failed to insert sales rep %s: %w", rep.Name, err)
		}
		repIDs[rep.Name] = rep.ID
	}

	result := &SeedResult{SalesReps: len(seedSalesReps)}
	for _, s := range seedDeals {
		repID, ok := repIDs[s.rep]
		if !ok {
			continue
		}
		deal := models.Deal{
			DealID:             s.dealID,
			CompanyName:        s.company,
			ContactName:        s.contact,
			TransportationMode: s.mode,
			Stage:              s.stage,
			Value:              decimal.NewFromInt(s.value),
			Probability:        int(s.probability),
			CreatedDate:        s.created,
			UpdatedDate:        s.updated,
			ExpectedCloseDate:  s.expectedClose,
			SalesRepID:         repID,
			OriginCity:         s.origin,
			DestinationCity:    s.destination,
			CargoType:          s.cargo,
			Territory:          AssignTerritory(s.origin),
		}
		if err := insertDeal(ctx, tx, &deal); err != nil {
			return nil, fmt.Errorf("failed to insert deal %s: %w", s.dealID, err)
		}
		result.Deals++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
