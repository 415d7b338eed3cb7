// ABOUTME: Territory backfill for deals saved without a territory
// ABOUTME: Each filled deal gets one system audit entry; dry runs write nothing
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nehemiah-ic/rv-takehome/models"
)

// DefaultBackfillReason is recorded on every backfilled territory.
const DefaultBackfillReason = "Territory assigned from origin city"

type BackfillRequest struct {
	// Assign maps an origin city to a territory. An empty result leaves the
	// deal untouched.
	Assign    func(originCity string) string
	ChangedBy string
	DryRun    bool
}

// BackfillChange is one territory the backfill filled in, or would fill in.
type BackfillChange struct {
	DealID     string `json:"dealId"`
	OriginCity string `json:"originCity"`
	Territory  string `json:"territory"`
}

type BackfillResult struct {
	Scanned int              `json:"scanned"`
	Changes []BackfillChange `json:"changes"`
	DryRun  bool             `json:"dryRun"`
}

// BackfillTerritories assigns a territory to every deal that has none. All
// changes are committed together.
func (s *Service) BackfillTerritories(ctx context.Context, req BackfillRequest) (*BackfillResult, error) {
	if req.Assign == nil {
		return nil, fmt.Errorf("backfill needs a territory assigner")
	}

	deals, err := s.store.FindAllDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}

	result := &BackfillResult{Scanned: len(deals), Changes: []BackfillChange{}, DryRun: req.DryRun}
	now := s.now()
	var updated []models.Deal
	var entries []models.AuditLog
	for _, d := range deals {
		if strings.TrimSpace(d.Territory) != "" {
			continue
		}
		territory := req.Assign(d.OriginCity)
		if territory == "" {
			continue
		}

		result.Changes = append(result.Changes, BackfillChange{
			DealID:     d.DealID,
			OriginCity: d.OriginCity,
			Territory:  territory,
		})
		entries = append(entries, newAuditEntry(d, models.FieldTerritory, nil, territory,
			req.ChangedBy, DefaultBackfillReason, models.ChangeTypeSystem, now))

		d.Territory = territory
		d.UpdatedDate = models.Timestamp(now)
		updated = append(updated, d)
	}

	if req.DryRun || len(updated) == 0 {
		return result, nil
	}

	if err := s.store.CommitChanges(ctx, updated, entries); err != nil {
		return nil, fmt.Errorf("failed to save backfilled territories: %w", err)
	}
	s.logger.Info("territories backfilled", "deals", len(updated), "scanned", len(deals))
	return result, nil
}
