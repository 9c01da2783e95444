package http

import (
	"fmt"
	"io"
	"net/http"

	"fintrack/internal/export"
	"fintrack/internal/services"
)

type importResponse struct {
	Expenses    int `json:"expenses"`
	Investments int `json:"investments"`
	Dropped     int `json:"dropped"`
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, _ *http.Request) {
	body := export.ExpensesCSV(s.tracker.Snapshot().Expenses)
	attachment(w, "text/csv; charset=utf-8", export.ExpensesFileName(s.now()))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func (s *Server) handleExportInvestments(w http.ResponseWriter, _ *http.Request) {
	body := export.InvestmentsCSV(s.tracker.Snapshot().Investments)
	attachment(w, "text/csv; charset=utf-8", export.InvestmentsFileName(s.now()))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	st := s.tracker.Snapshot()
	now := s.now()
	body, err := export.NewBackup(st.Expenses, st.Investments, now).JSON()
	if err != nil {
		s.fail(w, r, "export_backup", err)
		return
	}
	attachment(w, "application/json; charset=utf-8", export.BackupFileName(now))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleImport replaces expenses and investments with the posted backup.
// Budgets and settings are left alone.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, r, "import", err)
		return
	}
	res, err := export.ImportJSON(data)
	if err != nil {
		s.fail(w, r, "import", err)
		return
	}

	if err := s.tracker.Import(detached(r.Context()), res.Expenses, res.Investments); err != nil {
		s.fail(w, r, "import", err)
		return
	}
	s.structured.LogRecordChanged(r.Context(), "import", services.CollectionAll, "", s.tracker.Version())
	writeJSON(w, http.StatusOK, importResponse{
		Expenses:    len(res.Expenses),
		Investments: len(res.Investments),
		Dropped:     res.Dropped,
	})
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ClearAll(detached(r.Context())); err != nil {
		s.fail(w, r, "clear_data", err)
		return
	}
	s.reports.Purge()
	s.structured.LogRecordChanged(r.Context(), "clear", services.CollectionAll, "", s.tracker.Version())
	w.WriteHeader(http.StatusNoContent)
}
