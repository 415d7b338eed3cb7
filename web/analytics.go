// ABOUTME: Read-only dashboard endpoints and the seed action
// ABOUTME: Workload analytics, territory breakdown, reference lists and audit trail
package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

func (s *Server) handleWorkloadAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.WorkloadAnalytics(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTerritories(w http.ResponseWriter, r *http.Request) {
	stats, total, err := s.svc.TerritoryAnalytics(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Territories []workload.TerritoryStats `json:"territories"`
		TotalDeals  int                       `json:"totalDeals"`
	}{stats, total})
}

func (s *Server) handleTerritoryOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"territories": models.Territories})
}

func (s *Server) handleSalesReps(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.SalesRepNames(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sales_reps": names})
}

func (s *Server) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var dealID *int64
	if v := q.Get("dealId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeInvalid(w, []pipeline.FieldError{{Field: "dealId", Message: "Must be an integer"}})
			return
		}
		dealID = &id
	}

	limit := pipeline.DefaultAuditLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeInvalid(w, []pipeline.FieldError{{Field: "limit", Message: "Must be a positive integer"}})
			return
		}
		limit = n
	}

	logs, err := s.svc.AuditTrail(r.Context(), dealID, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		AuditLogs []models.AuditLog `json:"auditLogs"`
		Count     int               `json:"count"`
	}{logs, len(logs)})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	result, err := s.seeder.Seed(r.Context())
	if err != nil {
		s.logger.Error("seed failed", "err", err, "request_id", requestID(r.Context()))
		s.writeError(w, http.StatusInternalServerError, "Failed to seed database")
		return
	}
	s.logger.Info("database seeded", "deals", result.Deals, "sales_reps", result.SalesReps)
	s.writeJSON(w, http.StatusOK, struct {
		Message   string `json:"message"`
		Deals     int    `json:"deals"`
		SalesReps int    `json:"salesReps"`
	}{
		Message:   fmt.Sprintf("Successfully seeded %d deals and %d sales reps", result.Deals, result.SalesReps),
		Deals:     result.Deals,
		SalesReps: result.SalesReps,
	})
}
