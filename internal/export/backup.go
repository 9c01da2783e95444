package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

var ErrInvalidJSON = errors.New("invalid JSON format")

// Backup is the full export of expenses and investments.
type Backup struct {
	Expenses    []core.Expense    `json:"expenses"`
	Investments []core.Investment `json:"investments"`
	ExportDate  time.Time         `json:"exportDate"`
}

func NewBackup(expenses []core.Expense, investments []core.Investment, now time.Time) Backup {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	if investments == nil {
		investments = []core.Investment{}
	}
	return Backup{Expenses: expenses, Investments: investments, ExportDate: now.UTC()}
}

// JSON renders the backup with two-space indentation.
func (b Backup) JSON() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// ImportResult is a decoded backup plus the number of records that could
// not be read and were left out.
type ImportResult struct {
	Backup
	Dropped int
}

// ImportJSON parses a backup. Records are validated on load the same way
// stored data is; records with an unreadable date are dropped and records
// without an ID get a fresh one. Missing collections decode as empty.
func ImportJSON(data []byte) (ImportResult, error) {
	var raw struct {
		Expenses    []json.RawMessage `json:"expenses"`
		Investments []json.RawMessage `json:"investments"`
		ExportDate  string            `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	res := ImportResult{Backup: NewBackup(nil, nil, time.Time{})}
	if t, err := time.Parse(time.RFC3339, raw.ExportDate); err == nil {
		res.ExportDate = t
	}

	for _, item := range raw.Expenses {
		var e core.Expense
		if err := json.Unmarshal(item, &e); err != nil {
			res.Dropped++
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		res.Expenses = append(res.Expenses, e)
	}
	for _, item := range raw.Investments {
		var inv core.Investment
		if err := json.Unmarshal(item, &inv); err != nil {
			res.Dropped++
			continue
		}
		if inv.ID == "" {
			inv.ID = uuid.NewString()
		}
		res.Investments = append(res.Investments, inv)
	}
	return res, nil
}

// File names for downloads and backup files.
func ExpensesFileName(now time.Time) string {
	return "expenses_" + now.Format(time.DateOnly) + ".csv"
}

func InvestmentsFileName(now time.Time) string {
	return "investments_" + now.Format(time.DateOnly) + ".csv"
}

func BackupFileName(now time.Time) string {
	return "expense-tracker-backup_" + now.Format("2006-01-02_150405") + ".json"
}
