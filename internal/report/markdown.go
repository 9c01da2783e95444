package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

type table struct {
	header []string
	rows   [][]string
}

func (t table) write(b *strings.Builder) {
	b.WriteString("| " + strings.Join(t.header, " | ") + " |\n")
	sep := make([]string, len(t.header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func categoryTable(items []core.CategoryAmount, currency string) table {
	t := table{header: []string{"Category", "Amount"}}
	for _, c := range items {
		t.rows = append(t.rows, []string{string(c.Category), core.FormatMoney(c.Amount, currency)})
	}
	return t
}

func budgetTable(items []aggregate.BudgetStatus, currency string) table {
	t := table{header: []string{"Category", "Spent", "Budget", "Used", "Remaining", ""}}
	for _, s := range items {
		flag := ""
		if s.OverBudget {
			flag = "over budget"
		}
		t.rows = append(t.rows, []string{
			string(s.Category),
			core.FormatMoney(s.Spent, currency),
			core.FormatMoney(s.Budget, currency),
			s.UsedPercent.StringFixed(2) + "%",
			core.FormatMoney(s.Remaining, currency),
			flag,
		})
	}
	return t
}

func trendTable(points []aggregate.TrendPoint, currency string) table {
	t := table{header: []string{"Period", "Amount"}}
	for _, p := range points {
		t.rows = append(t.rows, []string{p.Label, core.FormatMoney(p.Amount, currency)})
	}
	return t
}

// WeeklyMarkdown renders a weekly report as a markdown document.
func WeeklyMarkdown(w Weekly, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Week of %s\n\n", w.Week.Start)
	fmt.Fprintf(&b, "%d expenses from %s to %s, total **%s**.\n\n",
		w.Count, w.Week.Start, w.Week.End, core.FormatMoney(w.Total, currency))

	b.WriteString("## Days\n\n")
	days := table{header: []string{"Day", "Date", "Expenses", "Amount"}}
	for _, d := range w.Days {
		days.rows = append(days.rows, []string{
			d.Date.Weekday().String(),
			d.Date.String(),
			fmt.Sprint(d.Count),
			core.FormatMoney(d.Total, currency),
		})
	}
	days.write(&b)

	if len(w.TopCategories) > 0 {
		b.WriteString("## Categories\n\n")
		categoryTable(w.TopCategories, currency).write(&b)
	}

	b.WriteString("## Last four weeks\n\n")
	trendTable(w.Trend, currency).write(&b)
	return b.String()
}

// MonthlyMarkdown renders a monthly report as a markdown document.
func MonthlyMarkdown(m Monthly, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %d\n\n", m.Month.Start.Month(), m.Month.Start.Year())
	fmt.Fprintf(&b, "%d expenses, total **%s**, daily average %s.\n\n",
		m.Count, core.FormatMoney(m.Total, currency), core.FormatMoney(m.DailyAverage, currency))

	if len(m.TopCategories) > 0 {
		b.WriteString("## Categories\n\n")
		categoryTable(m.TopCategories, currency).write(&b)
	}
	if len(m.Budgets) > 0 {
		b.WriteString("## Budgets\n\n")
		budgetTable(m.Budgets, currency).write(&b)
	}
	if len(m.TopSpendingDays) > 0 {
		b.WriteString("## Top spending days\n\n")
		days := table{header: []string{"Date", "Expenses", "Amount"}}
		for _, d := range m.TopSpendingDays {
			days.rows = append(days.rows, []string{d.Date.String(), fmt.Sprint(d.Count), core.FormatMoney(d.Total, currency)})
		}
		days.write(&b)
	}

	b.WriteString("## Weekly trend\n\n")
	trendTable(m.WeeklyTrend, currency).write(&b)
	return b.String()
}

// InvestmentsMarkdown renders the portfolio and each investment's return.
func InvestmentsMarkdown(r Investments, currency string) string {
	var b strings.Builder
	b.WriteString("# Investments\n\n")
	fmt.Fprintf(&b, "%d investments, invested %s, now worth %s (%s%%).\n\n",
		r.Summary.Count,
		core.FormatMoney(r.Summary.Initial, currency),
		core.FormatMoney(r.Summary.Current, currency),
		signed(r.Summary.ROI))

	if len(r.Summary.Distribution) > 0 {
		b.WriteString("## Distribution\n\n")
		dist := table{header: []string{"Type", "Current value"}}
		for _, d := range r.Summary.Distribution {
			dist.rows = append(dist.rows, []string{string(d.Type), core.FormatMoney(d.Amount, currency)})
		}
		dist.write(&b)
	}

	if len(r.Items) > 0 {
		b.WriteString("## Holdings\n\n")
		items := table{header: []string{"Date", "Type", "Invested", "Current", "Return", "Purpose"}}
		for _, it := range r.Items {
			items.rows = append(items.rows, []string{
				it.Investment.Date.String(),
				string(it.Investment.Type),
				core.FormatMoney(it.Return.Initial, currency),
				core.FormatMoney(it.Return.Current, currency),
				signed(it.Return.ROI) + "%",
				it.Investment.Purpose,
			})
		}
		items.write(&b)
	}
	return b.String()
}

// signed prefixes non-negative percentages with a plus sign.
func signed(pct string) string {
	d, err := decimal.NewFromString(pct)
	if err != nil || d.IsNegative() {
		return pct
	}
	return "+" + pct
}
