package aggregate

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Return is the performance of one investment or of a whole portfolio.
type Return struct {
	Initial decimal.Decimal `json:"initial"`
	Current decimal.Decimal `json:"current"`
	Profit  decimal.Decimal `json:"profit"`
	// ROI is the percentage return rendered to two decimal places.
	ROI string `json:"roi"`
}

// Portfolio summarises a set of investments.
type Portfolio struct {
	Return
	Count        int               `json:"count"`
	Distribution []core.TypeAmount `json:"distribution"`
}

// ROI computes the return of a single investment. A zero initial amount
// yields a 0.00 return rather than a division error.
func ROI(inv core.Investment) Return {
	return newReturn(nonNegative(inv.Amount), nonNegative(inv.Current()))
}

// PortfolioSummary totals invested and current value across investments and
// breaks the current value down by type.
func PortfolioSummary(investments []core.Investment) Portfolio {
	invested, current := decimal.Zero, decimal.Zero
	byType := make(map[core.InvestmentType]decimal.Decimal)
	for _, inv := range investments {
		invested = invested.Add(nonNegative(inv.Amount))
		value := nonNegative(inv.Current())
		current = current.Add(value)
		byType[inv.Type] = byType[inv.Type].Add(value)
	}

	dist := make([]core.TypeAmount, 0, len(byType))
	for _, t := range core.InvestmentTypes() {
		if v := byType[t]; v.IsPositive() {
			dist = append(dist, core.TypeAmount{Type: t, Amount: v})
		}
	}

	return Portfolio{
		Return:       newReturn(invested, current),
		Count:        len(investments),
		Distribution: dist,
	}
}

func newReturn(initial, current decimal.Decimal) Return {
	profit := current.Sub(initial)
	roi := decimal.Zero
	if initial.IsPositive() {
		roi = profit.Div(initial).Mul(hundred)
	}
	return Return{
		Initial: initial,
		Current: current,
		Profit:  profit,
		ROI:     roi.StringFixed(2),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
