package http

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/services"
)

const (
	reportDashboard   = "dashboard"
	reportWeekly      = "weekly"
	reportMonthly     = "monthly"
	reportInvestments = "investments"
)

// cachedReport returns the report of the given kind for the current state.
// Keys include the state version so any mutation makes older entries
// unreachable.
func (s *Server) cachedReport(kind string, st services.State, ref core.Date, build func() any) any {
	key := fmt.Sprintf("%s|%d|%s", kind, st.Version, ref)
	v, _ := s.reports.GetOrCompute(key, func() (any, error) {
		return build(), nil
	})
	return v
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ref, err := refDate(r, s.now())
	if err != nil {
		s.fail(w, r, "dashboard", err)
		return
	}
	st := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, s.cachedReport(reportDashboard, st, ref, func() any {
		return report.BuildDashboard(st.State, ref, s.currency)
	}))
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	ref, err := refDate(r, s.now())
	if err != nil {
		s.fail(w, r, "weekly_report", err)
		return
	}
	st := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, s.cachedReport(reportWeekly, st, ref, func() any {
		return report.BuildWeekly(st.State, ref, s.currency)
	}))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	ref, err := refDate(r, s.now())
	if err != nil {
		s.fail(w, r, "monthly_report", err)
		return
	}
	st := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, s.cachedReport(reportMonthly, st, ref, func() any {
		return report.BuildMonthly(st.State, ref, s.currency)
	}))
}

func (s *Server) handleInvestmentReport(w http.ResponseWriter, r *http.Request) {
	st := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, s.cachedReport(reportInvestments, st, core.Date{}, func() any {
		return report.BuildInvestments(st.State, s.currency)
	}))
}
