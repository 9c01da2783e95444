package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func day(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func exp(id, date, amount string, c core.Category) core.Expense {
	return core.Expense{ID: id, Date: day(date), Amount: decimal.RequireFromString(amount), Category: c}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ids(expenses []core.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func assertIDs(t *testing.T, got []core.Expense, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got ids %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got ids %v, want %v", g, want)
		}
	}
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
