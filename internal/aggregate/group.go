package aggregate

import (
	"slices"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// DayGroup holds the expenses of one calendar day in insertion order.
type DayGroup struct {
	Date     core.Date      `json:"date"`
	Expenses []core.Expense `json:"expenses"`
}

// DayTotal is the amount and number of expenses recorded on one day.
type DayTotal struct {
	Date  core.Date       `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GroupByDay buckets expenses by ISO date. Days appear in the order they are
// first seen.
func GroupByDay(expenses []core.Expense) []DayGroup {
	index := make(map[string]int)
	out := make([]DayGroup, 0)
	for _, e := range expenses {
		key := e.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, DayGroup{Date: e.Date})
		}
		out[i].Expenses = append(out[i].Expenses, e)
	}
	return out
}

// DailyTotals reduces GroupByDay to a total and a count per day.
func DailyTotals(expenses []core.Expense) []DayTotal {
	groups := GroupByDay(expenses)
	out := make([]DayTotal, len(groups))
	for i, g := range groups {
		out[i] = DayTotal{Date: g.Date, Total: Total(g.Expenses), Count: len(g.Expenses)}
	}
	return out
}

// TopSpendingDays returns the n days with the highest totals. Ties keep
// first-seen order.
func TopSpendingDays(expenses []core.Expense, n int) []DayTotal {
	days := DailyTotals(expenses)
	slices.SortStableFunc(days, func(a, b DayTotal) int {
		return b.Total.Cmp(a.Total)
	})
	if n > 0 && len(days) > n {
		days = days[:n]
	}
	return days
}

// WeekDays returns seven entries, Monday through Sunday, for the week
// containing ref. Days without expenses have a zero total.
func WeekDays(expenses []core.Expense, ref core.Date) []DayTotal {
	start := WeekStart(ref)
	out := make([]DayTotal, 7)
	for i := range out {
		out[i] = DayTotal{Date: start.AddDays(i), Total: decimal.Zero}
	}
	for _, e := range expenses {
		i := int(e.Date.Sub(start.Time).Hours() / 24)
		if i < 0 || i > 6 {
			continue
		}
		out[i].Total = out[i].Total.Add(amountOf(e))
		out[i].Count++
	}
	return out
}
