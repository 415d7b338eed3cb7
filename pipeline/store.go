// ABOUTME: Storage contract consumed by the pipeline service
// ABOUTME: Deals are returned with their sales rep already joined in
package pipeline

import (
	"context"

	"github.com/nehemiah-ic/rv-takehome/models"
)

// Store is the persistence collaborator. Single-row lookups return nil, nil
// when the row does not exist.
type Store interface {
	FindSalesRepByName(ctx context.Context, name string) (*models.SalesRep, error)
	ListSalesReps(ctx context.Context) ([]models.SalesRep, error)

	GetDeal(ctx context.Context, id int64) (*models.Deal, error)
	FindDealsByIDs(ctx context.Context, ids []int64) ([]models.Deal, error)
	FindAllDeals(ctx context.Context) ([]models.Deal, error)

	// CommitChanges saves deals and appends audit entries atomically.
	CommitChanges(ctx context.Context, deals []models.Deal, entries []models.AuditLog) error

	FindAuditLogs(ctx context.Context, dealID *int64, limit int) ([]models.AuditLog, error)
}
