package aggregate

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

const (
	weeklyTrendPoints  = 4
	monthlyTrendPoints = 6
)

// TrendPoint is the total spent in one period of a trend series.
type TrendPoint struct {
	Label  string          `json:"label"`
	Start  core.Date       `json:"start"`
	Amount decimal.Decimal `json:"amount"`
}

// WeeklyTrend returns four points, oldest first, for the week containing ref
// and the three weeks before it. Each point is labeled by its Monday.
func WeeklyTrend(expenses []core.Expense, ref core.Date) []TrendPoint {
	out := make([]TrendPoint, 0, weeklyTrendPoints)
	for i := weeklyTrendPoints - 1; i >= 0; i-- {
		w := WeekWindow(ref.AddDays(-7 * i))
		out = append(out, TrendPoint{
			Label:  w.Start.Format("Jan 02"),
			Start:  w.Start,
			Amount: Total(FilterWindow(expenses, w)),
		})
	}
	return out
}

// MonthlyTrend returns six points, oldest first, for ref's month and the
// five months before it. Each point is labeled "Jan 2006".
func MonthlyTrend(expenses []core.Expense, ref core.Date) []TrendPoint {
	first := core.NewDate(ref.Year(), int(ref.Month()), 1)
	out := make([]TrendPoint, 0, monthlyTrendPoints)
	for i := monthlyTrendPoints - 1; i >= 0; i-- {
		w := MonthWindow(core.Date{Time: first.AddDate(0, -i, 0)})
		out = append(out, TrendPoint{
			Label:  w.Start.Format("Jan 2006"),
			Start:  w.Start,
			Amount: Total(FilterWindow(expenses, w)),
		})
	}
	return out
}
