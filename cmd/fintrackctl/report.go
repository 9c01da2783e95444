package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

type reportCmd struct {
	period string
	date   string
	raw    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a weekly, monthly or investment report" }
func (*reportCmd) Usage() string {
	return `fintrackctl report [-period week|month|investments] [-d <date>] [-raw]

  Displays a report for the week or month containing the given day
  (defaults to today), or the investment portfolio.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "month", "Report period (week, month, investments)")
	f.StringVar(&c.date, "d", "", "Reference day (YYYY-MM-DD, defaults to today)")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref := core.DateOf(time.Now())
	if c.date != "" {
		d, err := core.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q\n", c.date)
			return subcommands.ExitUsageError
		}
		ref = d
	}
	switch c.period {
	case "week", "month", "investments":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown period %q\n", c.period)
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	st := s.tracker.Snapshot().State
	currency := s.cfg.Currency

	var md string
	switch c.period {
	case "week":
		md = report.WeeklyMarkdown(report.BuildWeekly(st, ref, currency), currency)
	case "month":
		md = report.MonthlyMarkdown(report.BuildMonthly(st, ref, currency), currency)
	case "investments":
		md = report.InvestmentsMarkdown(report.BuildInvestments(st, currency), currency)
	}

	printMarkdown(md, c.raw)
	return subcommands.ExitSuccess
}

// printMarkdown styles md for the terminal, falling back to the plain text
// when styling fails.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
