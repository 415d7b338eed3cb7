// ABOUTME: Pipeline service wiring storage, workload thresholds and logging
// ABOUTME: Entry point for bulk, single-deal and analytics operations
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

type Service struct {
	store      Store
	thresholds workload.Thresholds
	logger     *log.Logger

	now        func() time.Time
	newBatchID func(time.Time) string
}

// NewService creates a service over store. A nil logger falls back to the
// charm default logger.
func NewService(store Store, thresholds workload.Thresholds, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:      store,
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
		newBatchID: NewBatchID,
	}
}

// Thresholds returns the utilization thresholds the service scores with.
func (s *Service) Thresholds() workload.Thresholds {
	return s.thresholds
}
