package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/services"
)

type exportCmd struct {
	format string
	what   string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export expenses or investments as CSV, or everything as JSON" }
func (*exportCmd) Usage() string {
	return `fintrackctl export [-format csv|json] [-what expenses|investments] [-o <file>]

  Writes an export to stdout or to the given file. The JSON format is a full
  backup and ignores -what.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format (csv, json)")
	f.StringVar(&c.what, "what", services.CollectionExpenses, "Collection to export as CSV (expenses, investments)")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "csv" && c.format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	if c.format == "csv" && c.what != services.CollectionExpenses && c.what != services.CollectionInvestments {
		fmt.Fprintf(os.Stderr, "Error: unknown collection %q\n", c.what)
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	st := s.tracker.Snapshot()
	var body []byte
	switch {
	case c.format == "json":
		if body, err = export.NewBackup(st.Expenses, st.Investments, time.Now()).JSON(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case c.what == services.CollectionInvestments:
		body = []byte(export.InvestmentsCSV(st.Investments))
	default:
		body = []byte(export.ExpensesCSV(st.Expenses))
	}

	if err := writeOutput(c.output, body); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeOutput(name string, body []byte) error {
	if name == "" || name == "-" {
		_, err := os.Stdout.Write(body)
		return err
	}
	return os.WriteFile(name, body, 0o644)
}

type importCmd struct {
	input  string
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace expenses and investments with a JSON backup" }
func (*importCmd) Usage() string {
	return `fintrackctl import -i <file> [-n]

  Reads a JSON backup and replaces the stored expenses and investments with
  it. Budgets and settings are kept. Use -i - to read stdin.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Backup file to import (- for stdin)")
	f.BoolVar(&c.dryRun, "n", false, "Parse and report without importing")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}

	var data []byte
	var err error
	if c.input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res, err := export.ImportJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("read %d expenses, %d investments, dropped %d invalid records\n",
		len(res.Expenses), len(res.Investments), res.Dropped)
	if c.dryRun {
		return subcommands.ExitSuccess
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.tracker.Import(ctx, res.Expenses, res.Investments); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type recurringCmd struct {
	date string
}

func (*recurringCmd) Name() string     { return "recurring" }
func (*recurringCmd) Synopsis() string { return "create the recurring expenses that are due" }
func (*recurringCmd) Usage() string {
	return `fintrackctl recurring [-d <date>]

  Creates one occurrence for every recurring expense that is due on the
  given day (defaults to today).
`
}

func (c *recurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day to process (YYYY-MM-DD, defaults to today)")
}

func (c *recurringCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := time.Now()
	if c.date != "" {
		d, err := core.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q\n", c.date)
			return subcommands.ExitUsageError
		}
		now = d.Time
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	count, err := services.NewRecurringProcessor(s.tracker).ProcessDue(ctx, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("created %d recurring expenses\n", count)
	return subcommands.ExitSuccess
}

type clearCmd struct {
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete all stored data" }
func (*clearCmd) Usage() string {
	return `fintrackctl clear -yes

  Deletes every expense, investment, budget and setting. Budgets and settings
  return to their defaults.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm deletion")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Error: refusing to clear data without -yes")
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.tracker.ClearAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("all data cleared")
	return subcommands.ExitSuccess
}
