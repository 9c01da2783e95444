// Package aggregate derives filtered subsets and summary statistics from
// expense and investment collections.
//
// Every function is pure: inputs are never modified, results are freshly
// allocated, and anything that depends on "today" takes the reference date
// as a parameter.
package aggregate

import "fintrack/internal/core"

// Window is an inclusive range of calendar days.
type Window struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

// Contains reports whether d falls within the window, bounds included.
func (w Window) Contains(d core.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the number of calendar days covered by the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start.Time).Hours()/24) + 1
}

// WeekStart returns the Monday of the ISO week containing ref.
func WeekStart(ref core.Date) core.Date {
	offset := (int(ref.Weekday()) + 6) % 7
	return ref.AddDays(-offset)
}

// WeekWindow returns Monday through Sunday of the week containing ref.
func WeekWindow(ref core.Date) Window {
	start := WeekStart(ref)
	return Window{Start: start, End: start.AddDays(6)}
}

// MonthWindow returns the first through the last day of ref's month.
func MonthWindow(ref core.Date) Window {
	start := core.NewDate(ref.Year(), int(ref.Month()), 1)
	end := core.Date{Time: start.AddDate(0, 1, -1)}
	return Window{Start: start, End: end}
}

// FilterWeek returns the expenses dated within the week containing ref.
func FilterWeek(expenses []core.Expense, ref core.Date) []core.Expense {
	return FilterWindow(expenses, WeekWindow(ref))
}

// FilterMonth returns the expenses dated within the month containing ref.
func FilterMonth(expenses []core.Expense, ref core.Date) []core.Expense {
	return FilterWindow(expenses, MonthWindow(ref))
}

// FilterRange returns the expenses dated between start and end inclusive.
// A reversed range matches nothing.
func FilterRange(expenses []core.Expense, start, end core.Date) []core.Expense {
	return FilterWindow(expenses, Window{Start: start, End: end})
}

// FilterWindow keeps input order.
func FilterWindow(expenses []core.Expense, w Window) []core.Expense {
	return filter(expenses, func(e core.Expense) bool {
		return w.Contains(e.Date)
	})
}

func filter(expenses []core.Expense, keep func(core.Expense) bool) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
