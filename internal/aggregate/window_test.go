package aggregate

import (
	"testing"

	"fintrack/internal/core"
)

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		wantStart string
		wantEnd   string
	}{
		{"wednesday", "2024-01-10", "2024-01-08", "2024-01-14"},
		{"monday is the first day", "2024-01-08", "2024-01-08", "2024-01-14"},
		{"sunday is the last day", "2024-01-14", "2024-01-08", "2024-01-14"},
		{"crosses a year boundary", "2024-01-01", "2024-01-01", "2024-01-07"},
		{"crosses a month boundary", "2024-03-01", "2024-02-26", "2024-03-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeekWindow(day(tt.ref))
			if w.Start.String() != tt.wantStart || w.End.String() != tt.wantEnd {
				t.Errorf("WeekWindow(%s) = %s..%s, want %s..%s", tt.ref, w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
			if w.Days() != 7 {
				t.Errorf("week has %d days", w.Days())
			}
		})
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		ref, start, end string
	}{
		{"2024-02-15", "2024-02-01", "2024-02-29"},
		{"2023-02-01", "2023-02-01", "2023-02-28"},
		{"2024-12-31", "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		w := MonthWindow(day(tt.ref))
		if w.Start.String() != tt.start || w.End.String() != tt.end {
			t.Errorf("MonthWindow(%s) = %s..%s", tt.ref, w.Start, w.End)
		}
	}
}

func TestFilterWeekKeepsOrderAndIsIdempotent(t *testing.T) {
	expenses := []core.Expense{
		exp("a", "2024-01-14", "1", core.Food),
		exp("b", "2024-01-07", "1", core.Food),
		exp("c", "2024-01-08", "1", core.Food),
		exp("d", "2024-01-15", "1", core.Food),
		exp("e", "2024-01-10", "1", core.Food),
	}
	ref := day("2024-01-10")

	got := FilterWeek(expenses, ref)
	assertIDs(t, got, "a", "c", "e")
	assertIDs(t, FilterWeek(got, ref), "a", "c", "e")

	w := WeekWindow(ref)
	for _, e := range got {
		if !w.Contains(e.Date) {
			t.Fatalf("%s outside week", e.ID)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	expenses := []core.Expense{
		exp("a", "2024-01-14", "1", core.Food),
		exp("b", "2024-02-01", "1", core.Food),
	}
	got := FilterMonth(expenses, day("2024-01-31"))
	got[0].ID = "changed"
	if expenses[0].ID != "a" || len(expenses) != 2 {
		t.Fatal("filter result shares storage with input")
	}
}

func TestFilterRangeInclusive(t *testing.T) {
	expenses := []core.Expense{
		exp("a", "2024-01-01", "1", core.Food),
		exp("b", "2024-01-15", "1", core.Food),
		exp("c", "2024-01-31", "1", core.Food),
		exp("d", "2024-02-01", "1", core.Food),
	}
	assertIDs(t, FilterRange(expenses, day("2024-01-01"), day("2024-01-31")), "a", "b", "c")
	assertIDs(t, FilterRange(expenses, day("2024-02-01"), day("2024-01-01")))
}

func TestFiltersOnEmptyInput(t *testing.T) {
	if got := FilterWeek(nil, day("2024-01-01")); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := FilterMonth([]core.Expense{}, day("2024-01-01")); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
