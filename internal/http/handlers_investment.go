package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type investmentList struct {
	Investments []core.Investment `json:"investments"`
	Count       int               `json:"count"`
}

func (s *Server) handleListInvestments(w http.ResponseWriter, _ *http.Request) {
	inv := s.tracker.Snapshot().Investments
	writeJSON(w, http.StatusOK, investmentList{Investments: inv, Count: len(inv)})
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "create_investment", err)
		return
	}
	inv, err := req.toInvestment()
	if err != nil {
		s.fail(w, r, "create_investment", err)
		return
	}

	created, err := s.tracker.AddInvestment(detached(r.Context()), inv)
	if err != nil {
		s.fail(w, r, "create_investment", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "create", services.CollectionInvestments, created.ID, s.tracker.Version())
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req investmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "update_investment", err)
		return
	}
	inv, err := req.toInvestment()
	if err != nil {
		s.fail(w, r, "update_investment", err)
		return
	}

	updated, err := s.tracker.UpdateInvestment(detached(r.Context()), id, inv)
	if err != nil {
		s.fail(w, r, "update_investment", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "update", services.CollectionInvestments, id, s.tracker.Version())
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tracker.DeleteInvestment(detached(r.Context()), id); err != nil {
		s.fail(w, r, "delete_investment", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "delete", services.CollectionInvestments, id, s.tracker.Version())
	w.WriteHeader(http.StatusNoContent)
}
