// ABOUTME: Tests for bulk reassignment preview and execute
// ABOUTME: Covers reconciliation, no-op idempotence, batch ids and audit reasons
package pipeline

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchIDPattern = regexp.MustCompile(`^bulk-\d+-[a-z0-9]+$`)

func scenarioStore() *fakeStore {
	store := newFakeStore()
	alice := store.addRep(1, "Alice")
	bob := store.addRep(2, "Bob")
	store.addRep(3, "Charlie Brown")
	store.addDeal(1, 50000, alice, "West Coast")
	store.addDeal(2, 75000, bob, "")
	return store
}

func TestPreviewScenario(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	result, err := svc.Preview(context.Background(), []int64{1, 2}, "Charlie Brown")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.TotalDeals)
	assert.True(t, decimal.NewFromInt(125000).Equal(result.Summary.TotalValue))
	assert.ElementsMatch(t, []string{"Alice", "Charlie Brown", "Bob"}, result.Summary.AffectedReps)
	assert.Equal(t, []string{models.FieldSalesRep}, result.Summary.ChangeTypes)

	assert.Equal(t, 2, result.Impact.DealCount)
	assert.Len(t, result.Impact.Changes, 2)
	assert.ElementsMatch(t, []string{"West Coast", models.TerritoryUnassigned}, result.Impact.TerritoriesAffected)

	assert.Contains(t, result.CurrentWorkload, "Alice")
	assert.NotContains(t, result.CurrentWorkload, "Charlie Brown")

	projected := result.ProjectedWorkload
	require.Contains(t, projected, "Charlie Brown")
	assert.Equal(t, 2, projected["Charlie Brown"].DealCount)
	assert.True(t, decimal.NewFromInt(125000).Equal(projected["Charlie Brown"].TotalValue))
	assert.NotContains(t, projected, "Alice")

	assert.Equal(t, 0, store.commits, "preview must not write")
}

func TestPreviewDoesNotMutateStoredDeals(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	_, err := svc.Preview(context.Background(), []int64{1}, "Bob")
	require.NoError(t, err)

	assert.Equal(t, int64(1), store.deals[1].SalesRepID)
	assert.Equal(t, "2024-11-28T14:30:00.000Z", store.deals[1].UpdatedDate)
}

func TestPreviewReportsConflictsAndWarnings(t *testing.T) {
	store := newFakeStore()
	alice := store.addRep(1, "Alice")
	store.addRep(2, "Bob")
	for i := int64(1); i <= 8; i++ {
		store.addDeal(i, 60000, alice, "West Coast")
	}
	svc := newTestService(t, store)

	result, err := svc.Preview(context.Background(), []int64{1, 2, 3, 4, 5, 6, 7, 8}, "Bob")
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "Bob", result.Conflicts[0].Rep)

	types := map[string]int{}
	for _, w := range result.Warnings {
		types[w.Rep+"/"+w.Type]++
	}
	assert.Equal(t, map[string]int{
		"Alice/workload_shift": 1,
		"Alice/value_shift":    1,
		"Bob/workload_shift":   1,
		"Bob/value_shift":      1,
	}, types)
}

func TestPreviewValidation(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	_, err := svc.Preview(context.Background(), nil, "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Details, 2)
	assert.Equal(t, 0, store.reads, "validation must happen before storage access")
}

func TestPreviewUnknownRep(t *testing.T) {
	svc := newTestService(t, scenarioStore())

	_, err := svc.Preview(context.Background(), []int64{1}, "Nobody")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Sales rep not found: Nobody", nf.Message)
}

func TestPreviewMissingDeals(t *testing.T) {
	svc := newTestService(t, scenarioStore())

	_, err := svc.Preview(context.Background(), []int64{1, 2, 999}, "Alice")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Deals not found: 999", nf.Message)
}

func TestPreviewStorageFailure(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)
	store.failReads = true

	_, err := svc.Preview(context.Background(), []int64{1}, "Alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
}

func TestExecuteReassignsAndAudits(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{1, 2},
		TargetRep: "Charlie Brown",
		Reason:    "Q4 rebalance",
		ChangedBy: "ops@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, bulkSuccessMessage, result.Message)
	assert.Regexp(t, batchIDPattern, result.BatchID)
	assert.Equal(t, 2, result.UpdatedDeals)
	assert.Equal(t, 2, result.AuditEntries)
	assert.Equal(t, ExecuteSummary{TotalDeals: 2, ChangedDeals: 2, Changes: []string{models.FieldSalesRep}}, result.Summary)
	assert.Equal(t, 1, store.commits)

	for _, id := range []int64{1, 2} {
		assert.Equal(t, int64(3), store.deals[id].SalesRepID)
		assert.Equal(t, "2024-12-05T10:30:00.000Z", store.deals[id].UpdatedDate)
	}

	require.Len(t, store.audit, 2)
	entry := store.audit[0]
	assert.Equal(t, int64(1), entry.DealID)
	assert.Equal(t, "RV-1", entry.DealIdentifier)
	assert.Equal(t, models.FieldSalesRep, entry.FieldChanged)
	assert.Equal(t, "Alice", *entry.OldValue)
	assert.Equal(t, "Charlie Brown", *entry.NewValue)
	assert.Equal(t, "ops@example.com", entry.ChangedBy)
	assert.Equal(t, models.ChangeTypeBulk, entry.ChangeType)
}

func TestExecuteAuditReasonCarriesBatchSuffix(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{1, 2},
		TargetRep: "Charlie Brown",
		Reason:    "Q4 rebalance",
	})
	require.NoError(t, err)

	suffix := regexp.MustCompile(`\(Batch: bulk-\d+-[a-z0-9]+\)$`)
	for _, entry := range store.audit {
		assert.True(t, strings.HasPrefix(entry.Reason, "Q4 rebalance"))
		assert.Regexp(t, suffix, entry.Reason)
		assert.Equal(t, "Q4 rebalance (Batch: "+result.BatchID+")", entry.Reason)
		assert.Equal(t, models.DefaultChangedBy, entry.ChangedBy)
	}
}

func TestExecuteNoOpWritesNothing(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{1},
		TargetRep: "Alice",
		Reason:    "already there",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.UpdatedDeals)
	assert.Equal(t, 0, result.AuditEntries)
	assert.Equal(t, 1, result.Summary.TotalDeals)
	assert.Equal(t, 0, result.Summary.ChangedDeals)
	assert.Equal(t, 0, store.commits)
	assert.Empty(t, store.audit)
	assert.Equal(t, "2024-11-28T14:30:00.000Z", store.deals[1].UpdatedDate)
}

func TestExecutePartialNoOp(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{1, 2},
		TargetRep: "Bob",
		Reason:    "consolidate",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedDeals)
	assert.Equal(t, 1, result.AuditEntries)
	assert.Equal(t, 2, result.Summary.TotalDeals)
	require.Len(t, store.audit, 1)
	assert.Equal(t, int64(1), store.audit[0].DealID)
	assert.Equal(t, "2024-11-28T14:30:00.000Z", store.deals[2].UpdatedDate)
}

func TestExecuteUnassignedDealRecordsSentinel(t *testing.T) {
	store := scenarioStore()
	store.addDeal(3, 1000, nil, "")
	svc := newTestService(t, store)

	_, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{3},
		TargetRep: "Bob",
		Reason:    "claim",
	})
	require.NoError(t, err)
	require.Len(t, store.audit, 1)
	assert.Equal(t, models.RepUnassigned, *store.audit[0].OldValue)
}

func TestExecuteValidation(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	_, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{1},
		TargetRep: "Bob",
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "reason", verr.Details[0].Field)
	assert.Equal(t, 0, store.reads)
}

func TestExecuteMissingDeals(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	_, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{998, 1, 2, 999},
		TargetRep: "Bob",
		Reason:    "x",
	})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Deals not found: 998, 999", nf.Message)
	assert.Equal(t, 0, store.commits)
}

func TestExecuteToleratesDuplicateIDs(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), ExecuteRequest{
		DealIDs:   []int64{1, 1},
		TargetRep: "Bob",
		Reason:    "dup",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedDeals)
	assert.Equal(t, 2, result.Summary.TotalDeals)
}

// Execute does not consult conflict detection; blocking is the caller's call.
func TestExecuteSucceedsDespitePreviewConflicts(t *testing.T) {
	store := newFakeStore()
	alice := store.addRep(1, "Alice")
	store.addRep(2, "Bob")
	ids := []int64{}
	for i := int64(1); i <= 9; i++ {
		store.addDeal(i, 70000, alice, "South")
		ids = append(ids, i)
	}
	svc := newTestService(t, store)

	preview, err := svc.Preview(context.Background(), ids, "Bob")
	require.NoError(t, err)
	require.NotEmpty(t, preview.Conflicts)

	result, err := svc.Execute(context.Background(), ExecuteRequest{DealIDs: ids, TargetRep: "Bob", Reason: "move"})
	require.NoError(t, err)
	assert.Equal(t, 9, result.UpdatedDeals)
}

func TestExecuteCommitFailure(t *testing.T) {
	store := scenarioStore()
	store.failCommits = true
	svc := newTestService(t, store)

	_, err := svc.Execute(context.Background(), ExecuteRequest{DealIDs: []int64{1}, TargetRep: "Bob", Reason: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)

	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestExecuteBatchIDsAreUnique(t *testing.T) {
	store := scenarioStore()
	svc := newTestService(t, store)
	svc.now = time.Now

	first, err := svc.Execute(context.Background(), ExecuteRequest{DealIDs: []int64{1}, TargetRep: "Bob", Reason: "one"})
	require.NoError(t, err)
	second, err := svc.Execute(context.Background(), ExecuteRequest{DealIDs: []int64{1}, TargetRep: "Alice", Reason: "two"})
	require.NoError(t, err)

	assert.Regexp(t, batchIDPattern, first.BatchID)
	assert.Regexp(t, batchIDPattern, second.BatchID)
	assert.NotEqual(t, first.BatchID, second.BatchID)
}

func TestNewBatchID(t *testing.T) {
	now := time.UnixMilli(1733394600123)
	id := NewBatchID(now)

	assert.True(t, strings.HasPrefix(id, "bulk-1733394600123-"))
	assert.Len(t, strings.TrimPrefix(id, "bulk-1733394600123-"), 9)
	assert.Regexp(t, batchIDPattern, id)
	assert.NotEqual(t, id, NewBatchID(now))
}

func TestParseDealIDs(t *testing.T) {
	ids, err := ParseDealIDs(" 3, 1,,2 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	_, err = ParseDealIDs("1,two")
	assert.ErrorContains(t, err, `"two"`)

	_, err = ParseDealIDs(" , ")
	assert.Error(t, err)
}
