package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type expenseList struct {
	Expenses []core.Expense  `json:"expenses"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// handleListExpenses supports ?q= search, ?category=, an inclusive
// ?from=&to= date range and ?sort=date|amount|category with ?order=asc|desc.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	exp := s.tracker.Snapshot().Expenses

	if c := strings.TrimSpace(query.Get("category")); c != "" {
		cat, err := parseCategory(c)
		if err != nil {
			s.fail(w, r, "list_expenses", err)
			return
		}
		exp = aggregate.FilterCategory(exp, cat)
	}

	from, to := strings.TrimSpace(query.Get("from")), strings.TrimSpace(query.Get("to"))
	if from != "" || to != "" {
		start, end, err := parseRange(from, to)
		if err != nil {
			s.fail(w, r, "list_expenses", err)
			return
		}
		exp = aggregate.FilterRange(exp, start, end)
	}

	exp = aggregate.Search(exp, query.Get("q"))

	key, err := aggregate.ParseSortKey(query.Get("sort"))
	if err != nil {
		s.fail(w, r, "list_expenses", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	order, err := aggregate.ParseOrder(query.Get("order"))
	if err != nil {
		s.fail(w, r, "list_expenses", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	exp = aggregate.Sort(exp, key, order)

	writeJSON(w, http.StatusOK, expenseList{
		Expenses: exp,
		Count:    len(exp),
		Total:    aggregate.Total(exp),
	})
}

// parseRange reads an inclusive date range. A missing bound is open.
func parseRange(from, to string) (core.Date, core.Date, error) {
	start := core.Date{}
	end := core.NewDate(9999, 12, 31)
	var err error
	if from != "" {
		if start, err = core.ParseDate(from); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("%w: invalid from date %q", errBadRequest, from)
		}
	}
	if to != "" {
		if end, err = core.ParseDate(to); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("%w: invalid to date %q", errBadRequest, to)
		}
	}
	if end.Before(start) {
		return core.Date{}, core.Date{}, fmt.Errorf("%w: from is after to", errBadRequest)
	}
	return start, end, nil
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.tracker.Expense(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "get_expense", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "create_expense", err)
		return
	}
	e, err := req.toExpense()
	if err != nil {
		s.fail(w, r, "create_expense", err)
		return
	}

	created, err := s.tracker.AddExpense(detached(r.Context()), e)
	if err != nil {
		s.fail(w, r, "create_expense", err)
		return
	}
	s.structured.LogExpenseChanged(r.Context(), "create", created.ID,
		string(created.Category), created.Amount.String(), created.Date.String(), s.tracker.Version())
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, "update_expense", err)
		return
	}
	e, err := req.toExpense()
	if err != nil {
		s.fail(w, r, "update_expense", err)
		return
	}

	updated, err := s.tracker.UpdateExpense(detached(r.Context()), id, e)
	if err != nil {
		s.fail(w, r, "update_expense", err)
		return
	}
	s.structured.LogExpenseChanged(r.Context(), "update", id,
		string(updated.Category), updated.Amount.String(), updated.Date.String(), s.tracker.Version())
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tracker.DeleteExpense(detached(r.Context()), id); err != nil {
		s.fail(w, r, "delete_expense", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "delete", services.CollectionExpenses, id, s.tracker.Version())
	w.WriteHeader(http.StatusNoContent)
}
