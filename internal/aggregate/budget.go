package aggregate

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// BudgetStatus describes how much of a category budget has been used.
//
// Percentage is capped at 100 for progress bars, UsedPercent is not.
// OverBudget compares spent and budget directly and is independent of the cap.
type BudgetStatus struct {
	Category    core.Category   `json:"category"`
	Spent       decimal.Decimal `json:"spent"`
	Budget      decimal.Decimal `json:"budget"`
	Percentage  decimal.Decimal `json:"percentage"`
	UsedPercent decimal.Decimal `json:"usedPercent"`
	Remaining   decimal.Decimal `json:"remaining"`
	OverBudget  bool            `json:"isOverBudget"`
}

// BudgetUtilization reports one status per budgeted category, in category
// display order. Categories without a budget are not reported.
func BudgetUtilization(expenses []core.Expense, budgets core.Budgets) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, c := range budgets.Categories() {
		budget := budgets[c]
		spent := CategoryTotal(expenses, c)

		used := decimal.Zero
		if budget.IsPositive() {
			used = spent.Div(budget).Mul(hundred).Round(2)
		}
		pct := decimal.Min(used, hundred)

		remaining := budget.Sub(spent)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		out = append(out, BudgetStatus{
			Category:    c,
			Spent:       spent,
			Budget:      budget,
			Percentage:  pct,
			UsedPercent: used,
			Remaining:   remaining,
			OverBudget:  spent.GreaterThan(budget),
		})
	}
	return out
}
