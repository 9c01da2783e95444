package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Budgets)
}

// handleReplaceBudgets takes a category to amount object. Unlike stored
// data, unknown categories are rejected rather than folded into Other.
func (s *Server) handleReplaceBudgets(w http.ResponseWriter, r *http.Request) {
	var raw map[string]decimal.Decimal
	if err := decodeJSON(r, &raw); err != nil {
		s.fail(w, r, "replace_budgets", err)
		return
	}
	budgets := make(core.Budgets, len(raw))
	for name, amount := range raw {
		c, err := parseCategory(name)
		if err != nil {
			s.fail(w, r, "replace_budgets", fmt.Errorf("%q: %w", name, err))
			return
		}
		budgets[c] = amount
	}

	if err := s.tracker.ReplaceBudgets(detached(r.Context()), budgets); err != nil {
		s.fail(w, r, "replace_budgets", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "replace", services.CollectionBudgets, "", s.tracker.Version())
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Budgets)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	c, err := parseCategory(r.PathValue("category"))
	if err != nil {
		s.fail(w, r, "set_budget", err)
		return
	}
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "set_budget", err)
		return
	}

	if err := s.tracker.SetBudget(detached(r.Context()), c, req.Amount); err != nil {
		s.fail(w, r, "set_budget", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "update", services.CollectionBudgets, string(c), s.tracker.Version())
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Budgets)
}

func (s *Server) handleRemoveBudget(w http.ResponseWriter, r *http.Request) {
	c, err := parseCategory(r.PathValue("category"))
	if err != nil {
		s.fail(w, r, "remove_budget", err)
		return
	}
	if err := s.tracker.RemoveBudget(detached(r.Context()), c); err != nil {
		s.fail(w, r, "remove_budget", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "delete", services.CollectionBudgets, string(c), s.tracker.Version())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Settings)
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "set_balance", err)
		return
	}
	if err := s.tracker.SetBalance(detached(r.Context()), req.Amount); err != nil {
		s.fail(w, r, "set_balance", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "update", services.CollectionSettings, "accountBalance", s.tracker.Version())
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Settings)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "set_theme", err)
		return
	}
	if err := s.tracker.SetTheme(detached(r.Context()), core.Theme(req.Theme)); err != nil {
		s.fail(w, r, "set_theme", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "update", services.CollectionSettings, "theme", s.tracker.Version())
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Settings)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := s.tracker.ToggleTheme(detached(r.Context())); err != nil {
		s.fail(w, r, "toggle_theme", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "update", services.CollectionSettings, "theme", s.tracker.Version())
	writeJSON(w, http.StatusOK, s.tracker.Snapshot().Settings)
}
