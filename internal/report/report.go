// Package report assembles the dashboard, weekly, monthly and investment
// views from a state snapshot. Builders are pure; the caller supplies the
// reference day.
package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

const (
	topCategories  = 5
	recentExpenses = 5
	topDays        = 5
)

type Dashboard struct {
	Date             core.Date                `json:"date"`
	Month            aggregate.Window         `json:"month"`
	AccountBalance   decimal.Decimal          `json:"accountBalance"`
	TotalExpenses    decimal.Decimal          `json:"totalExpenses"`
	RemainingBalance decimal.Decimal          `json:"remainingBalance"`
	MonthTotal       decimal.Decimal          `json:"monthTotal"`
	DailyAverage     decimal.Decimal          `json:"dailyAverage"`
	TopCategories    []core.CategoryAmount    `json:"topCategories"`
	Budgets          []aggregate.BudgetStatus `json:"budgets"`
	MonthlyTrend     []aggregate.TrendPoint   `json:"monthlyTrend"`
	Recent           []core.Expense           `json:"recent"`
	Investments      aggregate.Portfolio      `json:"investments"`
	Formatted        map[string]string        `json:"formatted"`
}

type Weekly struct {
	Week          aggregate.Window       `json:"week"`
	Total         decimal.Decimal        `json:"total"`
	Count         int                    `json:"count"`
	Days          []aggregate.DayTotal   `json:"days"`
	Categories    []core.CategoryAmount  `json:"categories"`
	TopCategories []core.CategoryAmount  `json:"topCategories"`
	Groups        []aggregate.DayGroup   `json:"groups"`
	Trend         []aggregate.TrendPoint `json:"trend"`
	Formatted     map[string]string      `json:"formatted"`
}

type Monthly struct {
	Month           aggregate.Window         `json:"month"`
	Total           decimal.Decimal          `json:"total"`
	Count           int                      `json:"count"`
	DailyAverage    decimal.Decimal          `json:"dailyAverage"`
	Categories      []core.CategoryAmount    `json:"categories"`
	TopCategories   []core.CategoryAmount    `json:"topCategories"`
	Budgets         []aggregate.BudgetStatus `json:"budgets"`
	TopSpendingDays []aggregate.DayTotal     `json:"topSpendingDays"`
	WeeklyTrend     []aggregate.TrendPoint   `json:"weeklyTrend"`
	Formatted       map[string]string        `json:"formatted"`
}

// InvestmentLine is one investment with its return.
type InvestmentLine struct {
	Investment core.Investment  `json:"investment"`
	Return     aggregate.Return `json:"return"`
}

type Investments struct {
	Summary   aggregate.Portfolio `json:"summary"`
	Items     []InvestmentLine    `json:"items"`
	Formatted map[string]string   `json:"formatted"`
}

// BuildDashboard summarises the month containing ref and the account.
func BuildDashboard(st core.State, ref core.Date, currency string) Dashboard {
	month := aggregate.FilterMonth(st.Expenses, ref)
	monthTotal := aggregate.Total(month)
	all := aggregate.Total(st.Expenses)
	remaining := aggregate.RemainingBalance(st.Settings.AccountBalance, st.Expenses)

	avg := decimal.Zero
	if len(month) > 0 {
		avg = monthTotal.Div(decimal.NewFromInt(int64(ref.Day()))).Round(2)
	}

	recent := slices.Clone(st.Expenses)
	slices.SortStableFunc(recent, func(a, b core.Expense) int {
		return b.Date.Compare(a.Date.Time)
	})
	if len(recent) > recentExpenses {
		recent = recent[:recentExpenses]
	}

	return Dashboard{
		Date:             ref,
		Month:            aggregate.MonthWindow(ref),
		AccountBalance:   st.Settings.AccountBalance,
		TotalExpenses:    all,
		RemainingBalance: remaining,
		MonthTotal:       monthTotal,
		DailyAverage:     avg,
		TopCategories:    aggregate.TopCategories(month, topCategories),
		Budgets:          aggregate.BudgetUtilization(month, st.Budgets),
		MonthlyTrend:     aggregate.MonthlyTrend(st.Expenses, ref),
		Recent:           recent,
		Investments:      aggregate.PortfolioSummary(st.Investments),
		Formatted: map[string]string{
			"accountBalance":   core.FormatMoney(st.Settings.AccountBalance, currency),
			"totalExpenses":    core.FormatMoney(all, currency),
			"remainingBalance": core.FormatMoney(remaining, currency),
			"monthTotal":       core.FormatMoney(monthTotal, currency),
			"dailyAverage":     core.FormatMoney(avg, currency),
		},
	}
}

// BuildWeekly breaks down the ISO week containing ref.
func BuildWeekly(st core.State, ref core.Date, currency string) Weekly {
	week := aggregate.FilterWeek(st.Expenses, ref)
	total := aggregate.Total(week)
	return Weekly{
		Week:          aggregate.WeekWindow(ref),
		Total:         total,
		Count:         len(week),
		Days:          aggregate.WeekDays(week, ref),
		Categories:    aggregate.CategoryTotals(week),
		TopCategories: aggregate.TopCategories(week, 0),
		Groups:        aggregate.GroupByDay(week),
		Trend:         aggregate.WeeklyTrend(st.Expenses, ref),
		Formatted: map[string]string{
			"total": core.FormatMoney(total, currency),
		},
	}
}

// BuildMonthly breaks down the month containing ref against the budgets.
// The daily average divides by the days of the month elapsed at ref.
func BuildMonthly(st core.State, ref core.Date, currency string) Monthly {
	month := aggregate.FilterMonth(st.Expenses, ref)
	total := aggregate.Total(month)
	avg := decimal.Zero
	if len(month) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(ref.Day()))).Round(2)
	}
	return Monthly{
		Month:           aggregate.MonthWindow(ref),
		Total:           total,
		Count:           len(month),
		DailyAverage:    avg,
		Categories:      aggregate.CategoryTotals(month),
		TopCategories:   aggregate.TopCategories(month, 0),
		Budgets:         aggregate.BudgetUtilization(month, st.Budgets),
		TopSpendingDays: aggregate.TopSpendingDays(month, topDays),
		WeeklyTrend:     aggregate.WeeklyTrend(month, ref),
		Formatted: map[string]string{
			"total":        core.FormatMoney(total, currency),
			"dailyAverage": core.FormatMoney(avg, currency),
		},
	}
}

// BuildInvestments lists investments newest first with their returns.
func BuildInvestments(st core.State, currency string) Investments {
	items := make([]InvestmentLine, 0, len(st.Investments))
	for _, inv := range st.Investments {
		items = append(items, InvestmentLine{Investment: inv, Return: aggregate.ROI(inv)})
	}
	slices.SortStableFunc(items, func(a, b InvestmentLine) int {
		return cmp.Compare(b.Investment.Date.Unix(), a.Investment.Date.Unix())
	})

	sum := aggregate.PortfolioSummary(st.Investments)
	return Investments{
		Summary: sum,
		Items:   items,
		Formatted: map[string]string{
			"invested": core.FormatMoney(sum.Initial, currency),
			"current":  core.FormatMoney(sum.Current, currency),
			"profit":   core.FormatMoney(sum.Profit, currency),
		},
	}
}
