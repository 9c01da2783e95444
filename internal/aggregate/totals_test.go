package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestTotal(t *testing.T) {
	assertDec(t, "empty", Total(nil), "0")

	expenses := []core.Expense{
		exp("a", "2024-01-01", "10.25", core.Food),
		exp("b", "2024-01-02", "0", core.Food),
		{ID: "c", Date: day("2024-01-03")}, // missing amount
		exp("d", "2024-01-04", "4.75", core.Bills),
	}
	assertDec(t, "total", Total(expenses), "15")
}

func TestCategoryTotalsFirstSeenOrder(t *testing.T) {
	expenses := []core.Expense{
		exp("a", "2024-01-01", "5", core.Transport),
		exp("b", "2024-01-01", "7", core.Food),
		{ID: "c", Date: day("2024-01-01"), Amount: dec("3")}, // no category
		exp("d", "2024-01-01", "1", core.Transport),
	}
	got := CategoryTotals(expenses)
	want := []struct {
		c core.Category
		a string
	}{{core.Transport, "6"}, {core.Food, "7"}, {core.Other, "3"}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	sum := decimal.Zero
	for i, w := range want {
		if got[i].Category != w.c {
			t.Errorf("entry %d category = %s, want %s", i, got[i].Category, w.c)
		}
		assertDec(t, string(w.c), got[i].Amount, w.a)
		sum = sum.Add(got[i].Amount)
	}
	if !sum.Equal(Total(expenses)) {
		t.Errorf("category sum %s != total %s", sum, Total(expenses))
	}
	if len(CategoryTotals(nil)) != 0 {
		t.Error("empty input should give no categories")
	}
}

func TestTopCategoriesStableTies(t *testing.T) {
	expenses := []core.Expense{
		exp("a", "2024-01-01", "5", core.Bills),
		exp("b", "2024-01-01", "9", core.Food),
		exp("c", "2024-01-01", "5", core.Health),
		exp("d", "2024-01-01", "1", core.Other),
	}
	got := TopCategories(expenses, 3)
	want := []core.Category{core.Food, core.Bills, core.Health}
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i].Category != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(TopCategories(expenses, 0)) != 4 {
		t.Error("n <= 0 should return every category")
	}
}

func TestFilterCategoryAndRemainingBalance(t *testing.T) {
	expenses := []core.Expense{
		exp("a", "2024-01-01", "5", core.Bills),
		exp("b", "2024-01-01", "9", core.Food),
		exp("c", "2024-01-01", "6", core.Bills),
	}
	assertIDs(t, FilterCategory(expenses, core.Bills), "a", "c")
	assertDec(t, "remaining", RemainingBalance(dec("100"), expenses), "80")
	assertDec(t, "overdrawn", RemainingBalance(dec("10"), expenses), "-10")
}
