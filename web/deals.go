// ABOUTME: Deal mutation endpoints: bulk preview, bulk reassign and single-deal edits
// ABOUTME: Bodies are validated here; business rules live in the pipeline service
package web

import (
	"net/http"
	"strconv"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
)

type bulkChanges struct {
	SalesRepName string `json:"sales_rep_name" validate:"required,min=1"`
}

type previewBulkRequest struct {
	DealIDs []int64     `json:"dealIds" validate:"required,min=1,dive,gt=0"`
	Changes bulkChanges `json:"changes"`
}

type bulkReassignRequest struct {
	DealIDs   []int64     `json:"dealIds" validate:"required,min=1,dive,gt=0"`
	Changes   bulkChanges `json:"changes"`
	Reason    string      `json:"reason" validate:"required,min=1"`
	ChangedBy string      `json:"changed_by"`
}

type salesRepUpdateRequest struct {
	SalesRep  string `json:"sales_rep" validate:"required,min=1"`
	Reason    string `json:"reason"`
	ChangedBy string `json:"changed_by"`
}

type territoryUpdateRequest struct {
	Territory string `json:"territory" validate:"required"`
	ChangedBy string `json:"changed_by"`
}

type dealUpdateResponse struct {
	DealID      string           `json:"deal_id"`
	SalesRep    *models.SalesRep `json:"sales_rep"`
	Territory   string           `json:"territory"`
	UpdatedDate string           `json:"updated_date"`
}

func (s *Server) handlePreviewBulk(w http.ResponseWriter, r *http.Request) {
	var req previewBulkRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.svc.Preview(r.Context(), req.DealIDs, req.Changes.SalesRepName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkReassign(w http.ResponseWriter, r *http.Request) {
	var req bulkReassignRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.svc.Execute(r.Context(), pipeline.ExecuteRequest{
		DealIDs:   req.DealIDs,
		TargetRep: req.Changes.SalesRepName,
		Reason:    req.Reason,
		ChangedBy: req.ChangedBy,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func parseDealID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func (s *Server) handleReassignDeal(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseDealID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req salesRepUpdateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	deal, err := s.svc.ReassignDeal(r.Context(), pipeline.ReassignRequest{
		DealID:    dealID,
		SalesRep:  req.SalesRep,
		Reason:    req.Reason,
		ChangedBy: req.ChangedBy,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dealUpdateResponse{
		DealID:      deal.DealID,
		SalesRep:    deal.SalesRep,
		Territory:   deal.Territory,
		UpdatedDate: deal.UpdatedDate,
	})
}

func (s *Server) handleUpdateTerritory(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseDealID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req territoryUpdateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	deal, err := s.svc.UpdateTerritory(r.Context(), dealID, req.Territory, req.ChangedBy)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dealUpdateResponse{
		DealID:      deal.DealID,
		SalesRep:    deal.SalesRep,
		Territory:   deal.Territory,
		UpdatedDate: deal.UpdatedDate,
	})
}
