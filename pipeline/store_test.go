// ABOUTME: In-memory Store used by pipeline service tests
// ABOUTME: Records reads and writes so tests can assert on storage access
package pipeline

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/workload"
	"github.com/shopspring/decimal"
)

var errStorage = errors.New("database is locked")

type fakeStore struct {
	mu sync.Mutex

	reps  map[string]*models.SalesRep
	deals map[int64]models.Deal
	audit []models.AuditLog

	reads   int
	commits int

	failReads   bool
	failCommits bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reps:  make(map[string]*models.SalesRep),
		deals: make(map[int64]models.Deal),
	}
}

func (f *fakeStore) addRep(id int64, name string) *models.SalesRep {
	r := &models.SalesRep{ID: id, Name: name, Active: true}
	f.reps[name] = r
	return r
}

func (f *fakeStore) addDeal(id int64, value int64, rep *models.SalesRep, territory string) {
	d := models.Deal{
		ID:          id,
		DealID:      "RV-" + decimal.NewFromInt(id).StringFixed(0),
		Value:       decimal.NewFromInt(value),
		Stage:       models.StageProposal,
		Territory:   territory,
		UpdatedDate: "2024-11-28T14:30:00.000Z",
	}
	if rep != nil {
		d.SalesRepID = rep.ID
	}
	f.deals[id] = d
}

func (f *fakeStore) resolve(d models.Deal) models.Deal {
	d.SalesRep = nil
	for _, r := range f.reps {
		if r.ID == d.SalesRepID {
			copied := *r
			d.SalesRep = &copied
		}
	}
	return d
}

func (f *fakeStore) read() error {
	f.reads++
	if f.failReads {
		return errStorage
	}
	return nil
}

func (f *fakeStore) FindSalesRepByName(_ context.Context, name string) (*models.SalesRep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	r, ok := f.reps[name]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) ListSalesReps(_ context.Context) ([]models.SalesRep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	var out []models.SalesRep
	for _, r := range f.reps {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetDeal(_ context.Context, id int64) (*models.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	d, ok := f.deals[id]
	if !ok {
		return nil, nil
	}
	d = f.resolve(d)
	return &d, nil
}

func (f *fakeStore) FindDealsByIDs(_ context.Context, ids []int64) ([]models.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	var out []models.Deal
	for _, id := range ids {
		if d, ok := f.deals[id]; ok {
			out = append(out, f.resolve(d))
		}
	}
	return out, nil
}

func (f *fakeStore) FindAllDeals(_ context.Context) ([]models.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	out := make([]models.Deal, 0, len(f.deals))
	for _, d := range f.deals {
		out = append(out, f.resolve(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CommitChanges(_ context.Context, deals []models.Deal, entries []models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits++
	if f.failCommits {
		return errStorage
	}
	for _, d := range deals {
		d.SalesRep = nil
		f.deals[d.ID] = d
	}
	for _, e := range entries {
		e.ID = int64(len(f.audit) + 1)
		f.audit = append(f.audit, e)
	}
	return nil
}

func (f *fakeStore) FindAuditLogs(_ context.Context, dealID *int64, limit int) ([]models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	var out []models.AuditLog
	for i := len(f.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if dealID != nil && f.audit[i].DealID != *dealID {
			continue
		}
		out = append(out, f.audit[i])
	}
	return out, nil
}

var fixedNow = time.Date(2024, 12, 5, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	svc := NewService(store, workload.DefaultThresholds(), log.New(io.Discard))
	svc.now = func() time.Time { return fixedNow }
	return svc
}
