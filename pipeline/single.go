// ABOUTME: Single-deal sales rep and territory updates
// ABOUTME: Each effective change is saved together with one manual audit entry
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nehemiah-ic/rv-takehome/models"
)

// DefaultReassignReason is recorded when a single reassignment has no reason.
const DefaultReassignReason = "Sales rep reassignment"

// DefaultTerritoryReason is recorded for territory edits.
const DefaultTerritoryReason = "Territory update"

type ReassignRequest struct {
	DealID    int64
	SalesRep  string
	Reason    string
	ChangedBy string
}

func (s *Service) getDeal(ctx context.Context, id int64) (*models.Deal, error) {
	deal, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	if deal == nil {
		return nil, &NotFoundError{Message: "Deal not found"}
	}
	return deal, nil
}

// Deal looks up one deal with its sales rep joined in.
func (s *Service) Deal(ctx context.Context, id int64) (*models.Deal, error) {
	return s.getDeal(ctx, id)
}

// ReassignDeal moves one deal to another rep. Reassigning to the current rep
// is a no-op and writes nothing.
func (s *Service) ReassignDeal(ctx context.Context, req ReassignRequest) (*models.Deal, error) {
	if strings.TrimSpace(req.SalesRep) == "" {
		verr := &ValidationError{}
		verr.add("sales_rep", "Sales rep cannot be empty")
		return nil, verr
	}

	deal, err := s.getDeal(ctx, req.DealID)
	if err != nil {
		return nil, err
	}

	rep, err := s.store.FindSalesRepByName(ctx, req.SalesRep)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup sales rep: %w", err)
	}
	if rep == nil {
		return nil, &NotFoundError{Message: "Sales rep not found"}
	}

	if deal.SalesRepID == rep.ID {
		return deal, nil
	}

	reason := req.Reason
	if reason == "" {
		reason = DefaultReassignReason
	}

	now := s.now()
	var oldRep *string
	if name := deal.RepName(); name != "" {
		oldRep = strPtr(name)
	}
	entry := newAuditEntry(*deal, models.FieldSalesRep, oldRep, rep.Name, req.ChangedBy, reason, models.ChangeTypeManual, now)

	deal.SalesRepID = rep.ID
	deal.SalesRep = rep
	deal.UpdatedDate = models.Timestamp(now)

	if err := s.store.CommitChanges(ctx, []models.Deal{*deal}, []models.AuditLog{entry}); err != nil {
		return nil, fmt.Errorf("failed to save reassignment: %w", err)
	}

	s.logger.Info("deal reassigned", "deal", deal.DealID, "to", rep.Name)
	return deal, nil
}

// UpdateTerritory sets a deal's territory. The territory must be one of
// models.Territories.
func (s *Service) UpdateTerritory(ctx context.Context, dealID int64, territory, changedBy string) (*models.Deal, error) {
	if !models.IsValidTerritory(territory) {
		verr := &ValidationError{}
		verr.add("territory", "Territory must be one of: "+strings.Join(models.Territories, ", "))
		return nil, verr
	}

	deal, err := s.getDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Territory == territory {
		return deal, nil
	}

	now := s.now()
	var oldTerritory *string
	if deal.Territory != "" {
		oldTerritory = strPtr(deal.Territory)
	}
	entry := newAuditEntry(*deal, models.FieldTerritory, oldTerritory, territory, changedBy,
		DefaultTerritoryReason, models.ChangeTypeManual, now)

	deal.Territory = territory
	deal.UpdatedDate = models.Timestamp(now)

	if err := s.store.CommitChanges(ctx, []models.Deal{*deal}, []models.AuditLog{entry}); err != nil {
		return nil, fmt.Errorf("failed to save territory: %w", err)
	}
	return deal, nil
}
