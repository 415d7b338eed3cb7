// ABOUTME: Data models for the sales pipeline
// ABOUTME: Defines Deal, SalesRep, AuditLog and the derived workload records
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Deal values travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// TimestampLayout is the ISO-8601 form used for deal date columns.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t the way deal date columns are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

const (
	StageProspect    = "prospect"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

// Stages lists the pipeline stages in funnel order.
var Stages = []string{
	StageProspect,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Territories is the fixed set of sales regions a deal can belong to.
var Territories = []string{
	"West Coast",
	"East Coast",
	"Midwest",
	"South",
	"Southwest",
	"Mountain West",
	"Northeast",
	"Southeast",
}

// Sentinels used where a deal has no territory or no representative.
const (
	TerritoryUnassigned = "Unassigned"
	RepUnassigned       = "Unassigned"
)

// DefaultChangedBy is recorded when the caller does not identify itself.
const DefaultChangedBy = "System User"

// Audit change types.
const (
	ChangeTypeManual = "manual"
	ChangeTypeBulk   = "bulk"
	ChangeTypeSystem = "system"
)

// Tracked audit fields.
const (
	FieldSalesRep  = "sales_rep"
	FieldTerritory = "territory"
)

// IsValidStage reports whether stage is one of the pipeline stages.
func IsValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// IsValidTerritory reports whether territory is one of Territories.
func IsValidTerritory(territory string) bool {
	for _, t := range Territories {
		if t == territory {
			return true
		}
	}
	return false
}

type SalesRep struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Territory string    `json:"territory,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"updated_date"`
}

type Deal struct {
	ID                 int64           `json:"id"`
	DealID             string          `json:"deal_id"`
	CompanyName        string          `json:"company_name"`
	ContactName        string          `json:"contact_name"`
	TransportationMode string          `json:"transportation_mode"`
	Stage              string          `json:"stage"`
	Value              decimal.Decimal `json:"value"`
	Probability        int             `json:"probability"`
	CreatedDate        string          `json:"created_date"`
	UpdatedDate        string          `json:"updated_date"`
	ExpectedCloseDate  string          `json:"expected_close_date"`
	SalesRepID         int64           `json:"sales_rep_id"`
	SalesRep           *SalesRep       `json:"sales_rep,omitempty"`
	OriginCity         string          `json:"origin_city"`
	DestinationCity    string          `json:"destination_city"`
	CargoType          string          `json:"cargo_type,omitempty"`
	Territory          string          `json:"territory,omitempty"`
}

// RepName returns the resolved representative's name, or "" when the
// representative was not joined in.
func (d Deal) RepName() string {
	if d.SalesRep == nil {
		return ""
	}
	return d.SalesRep.Name
}

// AuditLog is an append-only record of one field change on one deal.
type AuditLog struct {
	ID             int64     `json:"id"`
	DealID         int64     `json:"dealId"`
	DealIdentifier string    `json:"dealIdentifier"`
	FieldChanged   string    `json:"fieldChanged"`
	OldValue       *string   `json:"oldValue,omitempty"`
	NewValue       *string   `json:"newValue,omitempty"`
	ChangedBy      string    `json:"changedBy"`
	Reason         string    `json:"reason,omitempty"`
	ChangedAt      time.Time `json:"changedAt"`
	ChangeType     string    `json:"changeType"`
}

// UtilizationLevel classifies how loaded a representative is.
type UtilizationLevel string

const (
	UtilizationUnder    UtilizationLevel = "under"
	UtilizationBalanced UtilizationLevel = "balanced"
	UtilizationOver     UtilizationLevel = "over"
)

// WorkloadAggregate holds per-representative statistics derived from a set of
// deals. It is computed on demand and never persisted.
type WorkloadAggregate struct {
	SalesRep         string           `json:"salesRep"`
	DealCount        int              `json:"dealCount"`
	TotalValue       decimal.Decimal  `json:"totalValue"`
	AvgDealValue     decimal.Decimal  `json:"avgDealValue"`
	Territories      []string         `json:"territories"`
	TerritoryCount   int              `json:"territoryCount"`
	DealsByStage     map[string]int   `json:"dealsByStage"`
	UtilizationLevel UtilizationLevel `json:"utilizationLevel"`
	Recommendations  []string         `json:"recommendations"`
}

// Conflict severities and types.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"

	ConflictOverload     = "overload"
	WarningWorkloadShift = "workload_shift"
	WarningValueShift    = "value_shift"
)

// Conflict flags a projected state that should block a bulk change.
type Conflict struct {
	Type       string `json:"type"`
	Rep        string `json:"rep"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// Warning flags a significant but non-blocking workload shift.
type Warning struct {
	Type     string `json:"type"`
	Rep      string `json:"rep"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Details  string `json:"details"`
}
