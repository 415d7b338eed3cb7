// ABOUTME: Bulk sales-rep reassignment: read-only preview and audited execute
// ABOUTME: Preview simulates the change in memory; execute persists only effective changes
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/workload"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ChangeTypes lists the fields a bulk reassignment touches.
var ChangeTypes = []string{models.FieldSalesRep}

const bulkSuccessMessage = "Bulk reassignment completed successfully"

type PreviewSummary struct {
	TotalDeals   int             `json:"totalDeals"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	AffectedReps []string        `json:"affectedReps"`
	ChangeTypes  []string        `json:"changeTypes"`
}

// PreviewResult is the impact report of a candidate bulk reassignment.
type PreviewResult struct {
	Impact            workload.Impact                     `json:"impact"`
	CurrentWorkload   map[string]models.WorkloadAggregate `json:"currentWorkload"`
	ProjectedWorkload map[string]models.WorkloadAggregate `json:"projectedWorkload"`
	Conflicts         []models.Conflict                   `json:"conflicts"`
	Warnings          []models.Warning                    `json:"warnings"`
	Summary           PreviewSummary                      `json:"summary"`
}

type ExecuteRequest struct {
	DealIDs   []int64
	TargetRep string
	Reason    string
	ChangedBy string
}

type ExecuteSummary struct {
	TotalDeals   int      `json:"totalDeals"`
	ChangedDeals int      `json:"changedDeals"`
	Changes      []string `json:"changes"`
}

// ExecutionResult reports what a bulk reassignment actually changed.
type ExecutionResult struct {
	Message      string         `json:"message"`
	BatchID      string         `json:"batchId"`
	UpdatedDeals int            `json:"updatedDeals"`
	AuditEntries int            `json:"auditEntries"`
	Summary      ExecuteSummary `json:"summary"`
}

func validateBulk(dealIDs []int64, targetRep string) *ValidationError {
	verr := &ValidationError{}
	if len(dealIDs) == 0 {
		verr.add("dealIds", "Must select at least one deal")
	}
	if strings.TrimSpace(targetRep) == "" {
		verr.add("changes.sales_rep_name", "Sales rep is required")
	}
	return verr
}

// distinctIDs drops repeated ids, keeping first-seen order.
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ParseDealIDs reads a comma separated list of numeric deal ids such as
// "1, 2,3". Blank entries are skipped.
func ParseDealIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid deal id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no deal ids given")
	}
	return ids, nil
}

// reconcile fails with a NotFoundError listing every requested id that the
// store did not return, in request order.
func reconcile(requested []int64, found []models.Deal) error {
	if len(found) >= len(requested) {
		return nil
	}
	have := make(map[int64]struct{}, len(found))
	for _, d := range found {
		have[d.ID] = struct{}{}
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return dealsNotFound(missing)
}

func (s *Service) resolveTarget(ctx context.Context, name string) (*models.SalesRep, error) {
	target, err := s.store.FindSalesRepByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup sales rep: %w", err)
	}
	if target == nil {
		return nil, repNotFound(name)
	}
	return target, nil
}

// Preview simulates reassigning dealIDs to targetRep and reports the
// resulting workload shift. It never writes to storage.
func (s *Service) Preview(ctx context.Context, dealIDs []int64, targetRep string) (*PreviewResult, error) {
	if err := validateBulk(dealIDs, targetRep).orNil(); err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, targetRep)
	if err != nil {
		return nil, err
	}

	ids := distinctIDs(dealIDs)

	var selected, all []models.Deal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		selected, err = s.store.FindDealsByIDs(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to fetch selected deals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		all, err = s.store.FindAllDeals(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch deals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := reconcile(ids, selected); err != nil {
		return nil, err
	}

	requested := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	simulated := make([]models.Deal, len(all))
	for i, deal := range all {
		if _, ok := requested[deal.ID]; ok {
			deal.SalesRepID = target.ID
			deal.SalesRep = target
		}
		simulated[i] = deal
	}

	current := s.thresholds.Snapshot(all)
	projected := s.thresholds.Snapshot(simulated)

	result := &PreviewResult{
		Impact:            workload.ComputeImpact(selected, target.Name),
		CurrentWorkload:   current,
		ProjectedWorkload: projected,
		Conflicts:         s.thresholds.DetectConflicts(projected),
		Warnings:          s.thresholds.DetectWarnings(current, projected),
		Summary: PreviewSummary{
			TotalDeals:   len(dealIDs),
			TotalValue:   workload.TotalValue(selected),
			AffectedReps: workload.AffectedReps(selected, target.Name),
			ChangeTypes:  ChangeTypes,
		},
	}

	s.logger.Debug("bulk preview computed",
		"deals", len(ids),
		"target", target.Name,
		"conflicts", len(result.Conflicts),
		"warnings", len(result.Warnings))

	return result, nil
}

// Execute reassigns the requested deals to the target rep. Deals already
// assigned to the target are left untouched and produce no audit entry.
// Conflicts are not re-checked here; blocking on them is caller policy.
func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (*ExecutionResult, error) {
	verr := validateBulk(req.DealIDs, req.TargetRep)
	if strings.TrimSpace(req.Reason) == "" {
		verr.add("reason", "Reason is required for bulk operations")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, req.TargetRep)
	if err != nil {
		return nil, err
	}

	ids := distinctIDs(req.DealIDs)
	deals, err := s.store.FindDealsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}
	if err := reconcile(ids, deals); err != nil {
		return nil, err
	}

	now := s.now()
	batchID := s.newBatchID(now)
	reason := BatchReason(req.Reason, batchID)

	var updates []models.Deal
	var entries []models.AuditLog
	for _, deal := range deals {
		if deal.SalesRepID == target.ID {
			continue
		}

		oldRep := deal.RepName()
		if oldRep == "" {
			oldRep = models.RepUnassigned
		}
		entries = append(entries, newAuditEntry(deal, models.FieldSalesRep, strPtr(oldRep), target.Name,
			req.ChangedBy, reason, models.ChangeTypeBulk, now))

		deal.SalesRepID = target.ID
		deal.SalesRep = target
		deal.UpdatedDate = models.Timestamp(now)
		updates = append(updates, deal)
	}

	if len(updates) > 0 || len(entries) > 0 {
		if err := s.store.CommitChanges(ctx, updates, entries); err != nil {
			return nil, fmt.Errorf("failed to save bulk reassignment: %w", err)
		}
	}

	s.logger.Info("bulk reassignment completed",
		"batch_id", batchID,
		"target", target.Name,
		"requested", len(req.DealIDs),
		"updated", len(updates))

	return &ExecutionResult{
		Message:      bulkSuccessMessage,
		BatchID:      batchID,
		UpdatedDeals: len(updates),
		AuditEntries: len(entries),
		Summary: ExecuteSummary{
			TotalDeals:   len(req.DealIDs),
			ChangedDeals: len(updates),
			Changes:      ChangeTypes,
		},
	}, nil
}
