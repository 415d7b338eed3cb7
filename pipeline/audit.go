// ABOUTME: Audit entry construction and batch id generation
// ABOUTME: Batch ids correlate every audit entry written by one bulk operation
package pipeline

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nehemiah-ic/rv-takehome/models"
)

const batchSuffixLen = 9

// NewBatchID returns an id of the form bulk-<epoch-ms>-<9 base36 chars>.
func NewBatchID(now time.Time) string {
	id := uuid.New()
	suffix := new(big.Int).SetBytes(id[:]).Text(36)
	if len(suffix) < batchSuffixLen {
		suffix = strings.Repeat("0", batchSuffixLen-len(suffix)) + suffix
	}
	return fmt.Sprintf("bulk-%d-%s", now.UnixMilli(), suffix[len(suffix)-batchSuffixLen:])
}

// BatchReason appends the batch correlation suffix to a caller's reason.
func BatchReason(reason, batchID string) string {
	return fmt.Sprintf("%s (Batch: %s)", reason, batchID)
}

func newAuditEntry(deal models.Deal, field string, oldValue *string, newValue, changedBy, reason, changeType string, at time.Time) models.AuditLog {
	if changedBy == "" {
		changedBy = models.DefaultChangedBy
	}
	return models.AuditLog{
		DealID:         deal.ID,
		DealIdentifier: deal.DealID,
		FieldChanged:   field,
		OldValue:       oldValue,
		NewValue:       &newValue,
		ChangedBy:      changedBy,
		Reason:         reason,
		ChangedAt:      at.UTC(),
		ChangeType:     changeType,
	}
}

func strPtr(s string) *string {
	return &s
}
