// ABOUTME: Tests for the SQLite repository and seed data
// ABOUTME: Exercises rep resolution, atomic commits and audit ordering against temp files
package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	h := NewHandle(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { _ = h.Close() })
	return NewRepository(h)
}

func createRep(t *testing.T, repo *Repository, name string) *models.SalesRep {
	t.Helper()
	rep := &models.SalesRep{Name: name, Active: true}
	require.NoError(t, repo.CreateSalesRep(context.Background(), rep))
	return rep
}

func createDeal(t *testing.T, repo *Repository, dealID string, value int64, rep *models.SalesRep) *models.Deal {
	t.Helper()
	deal := &models.Deal{
		DealID:      dealID,
		CompanyName: "Acme Freight",
		Stage:       models.StageProposal,
		Value:       decimal.NewFromInt(value),
		CreatedDate: "2024-11-01T00:00:00Z",
		UpdatedDate: "2024-11-01T00:00:00Z",
		OriginCity:  "Chicago, IL",
		Territory:   "Midwest",
	}
	if rep != nil {
		deal.SalesRepID = rep.ID
	}
	require.NoError(t, repo.CreateDeal(context.Background(), deal))
	return deal
}

func TestFindSalesRepByName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	alice := createRep(t, repo, "Alice")

	found, err := repo.FindSalesRepByName(ctx, "Alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.ID, found.ID)
	assert.True(t, found.Active)

	missing, err := repo.FindSalesRepByName(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, missing, "names match exactly")
}

func TestSalesRepNameIsUnique(t *testing.T) {
	repo := setupTestRepo(t)
	createRep(t, repo, "Alice")

	err := repo.CreateSalesRep(context.Background(), &models.SalesRep{Name: "Alice"})
	assert.Error(t, err)
}

func TestFindDealsByIDsResolvesReps(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	alice := createRep(t, repo, "Alice")
	bob := createRep(t, repo, "Bob")
	d1 := createDeal(t, repo, "RV-001", 50000, alice)
	d2 := createDeal(t, repo, "RV-002", 75000, bob)
	d3 := createDeal(t, repo, "RV-003", 1000, nil)

	deals, err := repo.FindDealsByIDs(ctx, []int64{d2.ID, d1.ID, d3.ID, 999})
	require.NoError(t, err)
	require.Len(t, deals, 3)

	byID := map[int64]models.Deal{}
	for _, d := range deals {
		byID[d.ID] = d
	}
	assert.Equal(t, "Alice", byID[d1.ID].RepName())
	assert.Equal(t, "Bob", byID[d2.ID].RepName())
	assert.Nil(t, byID[d3.ID].SalesRep)
	assert.Equal(t, int64(0), byID[d3.ID].SalesRepID)
	assert.True(t, decimal.NewFromInt(75000).Equal(byID[d2.ID].Value))
	assert.Equal(t, "Midwest", byID[d1.ID].Territory)

	empty, err := repo.FindDealsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecimalValuesRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	deal := &models.Deal{
		DealID:      "RV-100",
		CompanyName: "Acme",
		Stage:       models.StageProspect,
		Value:       decimal.RequireFromString("12345.67"),
		CreatedDate: "2024-11-01T00:00:00Z",
		UpdatedDate: "2024-11-01T00:00:00Z",
	}
	require.NoError(t, repo.CreateDeal(ctx, deal))

	got, err := repo.GetDeal(ctx, deal.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12345.67", got.Value.String())
}

func TestGetDealMissing(t *testing.T) {
	repo := setupTestRepo(t)

	deal, err := repo.GetDeal(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, deal)
}

func TestCommitChanges(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	alice := createRep(t, repo, "Alice")
	bob := createRep(t, repo, "Bob")
	deal := createDeal(t, repo, "RV-001", 50000, alice)

	deal.SalesRepID = bob.ID
	deal.UpdatedDate = "2024-12-05T10:30:00.000Z"
	old, updated := "Alice", "Bob"
	entry := models.AuditLog{
		DealID:         deal.ID,
		DealIdentifier: deal.DealID,
		FieldChanged:   models.FieldSalesRep,
		OldValue:       &old,
		NewValue:       &updated,
		ChangedBy:      "ops",
		Reason:         "Q4 rebalance (Batch: bulk-1-abc)",
		ChangedAt:      time.Date(2024, 12, 5, 10, 30, 0, 0, time.UTC),
		ChangeType:     models.ChangeTypeBulk,
	}
	require.NoError(t, repo.CommitChanges(ctx, []models.Deal{*deal}, []models.AuditLog{entry}))

	got, err := repo.GetDeal(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.RepName())
	assert.Equal(t, "2024-12-05T10:30:00.000Z", got.UpdatedDate)

	logs, err := repo.FindAuditLogs(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Alice", *logs[0].OldValue)
	assert.Equal(t, "Bob", *logs[0].NewValue)
	assert.Equal(t, entry.Reason, logs[0].Reason)
	assert.Equal(t, models.ChangeTypeBulk, logs[0].ChangeType)
	assert.True(t, entry.ChangedAt.Equal(logs[0].ChangedAt))
}

func TestCommitChangesRollsBackOnFailure(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	alice := createRep(t, repo, "Alice")
	bob := createRep(t, repo, "Bob")
	deal := createDeal(t, repo, "RV-001", 50000, alice)

	deal.SalesRepID = bob.ID
	bad := models.AuditLog{
		DealID:         deal.ID,
		DealIdentifier: deal.DealID,
		FieldChanged:   models.FieldSalesRep,
		ChangedBy:      "ops",
		ChangedAt:      time.Now(),
		ChangeType:     "not-a-type",
	}
	err := repo.CommitChanges(ctx, []models.Deal{*deal}, []models.AuditLog{bad})
	require.Error(t, err)

	got, err := repo.GetDeal(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.RepName(), "deal update must roll back with the audit insert")
}

func TestCommitChangesMissingDeal(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.CommitChanges(context.Background(), []models.Deal{{ID: 77, DealID: "RV-077"}}, nil)
	assert.Error(t, err)
}

func TestFindAuditLogsOrderingAndFilter(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	var entries []models.AuditLog
	for i := 0; i < 5; i++ {
		v := "v"
		entries = append(entries, models.AuditLog{
			DealID:         int64(i%2 + 1),
			DealIdentifier: "RV-X",
			FieldChanged:   models.FieldTerritory,
			NewValue:       &v,
			ChangedBy:      "ops",
			ChangedAt:      base.Add(time.Duration(i) * time.Hour),
			ChangeType:     models.ChangeTypeManual,
		})
	}
	require.NoError(t, repo.CommitChanges(ctx, nil, entries))

	all, err := repo.FindAuditLogs(ctx, nil, 50)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].ChangedAt.After(all[i-1].ChangedAt), "newest first")
	}
	assert.Nil(t, all[0].OldValue)

	dealID := int64(2)
	forDeal, err := repo.FindAuditLogs(ctx, &dealID, 50)
	require.NoError(t, err)
	assert.Len(t, forDeal, 2)

	limited, err := repo.FindAuditLogs(ctx, nil, 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestAssignTerritory(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"Los Angeles, CA", "West Coast"},
		{"BOSTON, MA", "East Coast"},
		{"Chicago, IL", "Midwest"},
		{"Houston, TX", "South"},
		{"Las Vegas, NV", "Southwest"},
		{"Salt Lake City, UT", "Mountain West"},
		{"Anchorage, AK", TerritoryOther},
		{"", TerritoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignTerritory(tt.city))
		})
	}
}

func TestSeedIsRepeatable(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := repo.Seed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, result.Deals)
		assert.Equal(t, 6, result.SalesReps)
	}

	reps, err := repo.ListSalesReps(ctx)
	require.NoError(t, err)
	assert.Len(t, reps, 6)

	deals, err := repo.FindAllDeals(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 10)

	for _, d := range deals {
		assert.NotEmpty(t, d.RepName(), "deal %s should have a resolved rep", d.DealID)
		if d.DealID == "RV-002" {
			assert.Equal(t, "Mountain West", d.Territory)
			assert.Equal(t, "Jennifer Walsh", d.RepName())
		}
	}
}
