// Package export renders the tracked collections as CSV and JSON backups
// and reads backups back in.
package export

import (
	"strings"

	"fintrack/internal/core"
)

var (
	expenseHeaders    = []string{"Date", "Category", "Amount", "Notes", "Tags", "Recurring"}
	investmentHeaders = []string{"Date", "Type", "Amount", "Current Value", "Purpose", "Notes"}
)

// ExpensesCSV renders expenses with an unquoted header row and fully quoted
// data rows. An empty list renders as the empty string.
func ExpensesCSV(expenses []core.Expense) string {
	if len(expenses) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		recurring := "No"
		if e.IsRecurring {
			recurring = "Yes"
		}
		rows = append(rows, []string{
			e.Date.String(),
			string(e.Category),
			e.Amount.String(),
			e.Notes,
			strings.Join(e.Tags, ", "),
			recurring,
		})
	}
	return render(expenseHeaders, rows)
}

// InvestmentsCSV renders investments the same way. Current Value falls back
// to the invested amount.
func InvestmentsCSV(investments []core.Investment) string {
	if len(investments) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(investments))
	for _, inv := range investments {
		rows = append(rows, []string{
			inv.Date.String(),
			string(inv.Type),
			inv.Amount.String(),
			inv.Current().String(),
			inv.Purpose,
			inv.Notes,
		})
	}
	return render(investmentHeaders, rows)
}

func render(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
