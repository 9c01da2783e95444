package aggregate

import (
	"slices"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Total sums the amounts of expenses. Negative amounts never reach the
// engine but are counted as zero if they do.
func Total(expenses []core.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(amountOf(e))
	}
	return sum
}

// CategoryTotals sums amounts per category, in the order categories are
// first seen. Unset categories are counted as Other.
func CategoryTotals(expenses []core.Expense) []core.CategoryAmount {
	index := make(map[core.Category]int)
	out := make([]core.CategoryAmount, 0)
	for _, e := range expenses {
		c := categoryOf(e)
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, core.CategoryAmount{Category: c, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(amountOf(e))
	}
	return out
}

// CategoryTotal returns the summed amount for a single category.
func CategoryTotal(expenses []core.Expense, c core.Category) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		if categoryOf(e) == c {
			sum = sum.Add(amountOf(e))
		}
	}
	return sum
}

// TopCategories returns category totals ordered by amount, highest first.
// Ties keep first-seen order. n <= 0 returns every category.
func TopCategories(expenses []core.Expense, n int) []core.CategoryAmount {
	totals := CategoryTotals(expenses)
	slices.SortStableFunc(totals, func(a, b core.CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// FilterCategory returns the expenses booked under c.
func FilterCategory(expenses []core.Expense, c core.Category) []core.Expense {
	return filter(expenses, func(e core.Expense) bool {
		return categoryOf(e) == c
	})
}

// RemainingBalance is the account balance left after every recorded expense.
func RemainingBalance(balance decimal.Decimal, expenses []core.Expense) decimal.Decimal {
	return balance.Sub(Total(expenses))
}

func amountOf(e core.Expense) decimal.Decimal {
	if e.Amount.IsNegative() {
		return decimal.Zero
	}
	return e.Amount
}

func categoryOf(e core.Expense) core.Category {
	if !e.Category.Valid() {
		return core.Other
	}
	return e.Category
}
