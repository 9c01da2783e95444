package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"fintrack/internal/core"
)

// SortKey selects the field expenses are ordered by.
type SortKey string

// Order is the sort direction.
type Order string

const (
	ByDate     SortKey = "date"
	ByAmount   SortKey = "amount"
	ByCategory SortKey = "category"

	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case ByDate, ByAmount, ByCategory:
		return k, nil
	case "":
		return ByDate, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, nil
	case "":
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Search returns the expenses whose category, notes or any tag contains
// query, ignoring case. An empty query matches everything.
func Search(expenses []core.Expense, query string) []core.Expense {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return filter(expenses, func(core.Expense) bool { return true })
	}
	return filter(expenses, func(e core.Expense) bool {
		if strings.Contains(strings.ToLower(string(e.Category)), q) ||
			strings.Contains(strings.ToLower(e.Notes), q) {
			return true
		}
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

// Sort returns a copy of expenses ordered by key. The sort is stable in both
// directions: expenses with equal keys keep their relative input order.
func Sort(expenses []core.Expense, key SortKey, order Order) []core.Expense {
	out := slices.Clone(expenses)
	if out == nil {
		out = []core.Expense{}
	}
	compare := comparator(key)
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		if order == Asc {
			return compare(a, b)
		}
		return compare(b, a)
	})
	return out
}

func comparator(key SortKey) func(a, b core.Expense) int {
	switch key {
	case ByAmount:
		return func(a, b core.Expense) int { return amountOf(a).Cmp(amountOf(b)) }
	case ByCategory:
		return func(a, b core.Expense) int { return cmp.Compare(categoryOf(a), categoryOf(b)) }
	default:
		return func(a, b core.Expense) int { return a.Date.Compare(b.Date.Time) }
	}
}
