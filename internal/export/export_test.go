package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestExpensesCSV(t *testing.T) {
	if got := ExpensesCSV(nil); got != "" {
		t.Errorf("ExpensesCSV(nil) = %q, want empty", got)
	}

	expenses := []core.Expense{
		{
			Amount:      decimal.RequireFromString("120.50"),
			Category:    core.Food,
			Date:        core.NewDate(2024, 3, 5),
			Notes:       `lunch at "Joe's"`,
			Tags:        []string{"work", "team"},
			IsRecurring: false,
		},
		{
			Amount:             decimal.NewFromInt(900),
			Category:           core.Bills,
			Date:               core.NewDate(2024, 3, 1),
			IsRecurring:        true,
			RecurringFrequency: core.Monthly,
		},
	}

	want := "Date,Category,Amount,Notes,Tags,Recurring\n" +
		`"2024-03-05","Food","120.5","lunch at ""Joe's""","work, team","No"` + "\n" +
		`"2024-03-01","Bills","900","","","Yes"`
	if got := ExpensesCSV(expenses); got != want {
		t.Errorf("ExpensesCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestInvestmentsCSV(t *testing.T) {
	if got := InvestmentsCSV([]core.Investment{}); got != "" {
		t.Errorf("InvestmentsCSV(empty) = %q", got)
	}

	investments := []core.Investment{
		{
			Amount:       decimal.NewFromInt(1000),
			CurrentValue: decimal.NewNullDecimal(decimal.NewFromInt(1250)),
			Type:         core.MutualFunds,
			Date:         core.NewDate(2023, 12, 31),
			Purpose:      "retirement",
			Notes:        `"index"`,
		},
		{
			Amount: decimal.NewFromInt(500),
			Type:   core.Gold,
			Date:   core.NewDate(2024, 1, 2),
		},
	}

	want := "Date,Type,Amount,Current Value,Purpose,Notes\n" +
		`"2023-12-31","Mutual Funds","1000","1250","retirement","""index"""` + "\n" +
		`"2024-01-02","Gold","500","500","",""`
	if got := InvestmentsCSV(investments); got != want {
		t.Errorf("InvestmentsCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC)
	b := NewBackup(
		[]core.Expense{{ID: "e1", Amount: decimal.NewFromInt(10), Category: core.Transport, Date: core.NewDate(2024, 3, 9), Tags: []string{"bus"}}},
		nil,
		now,
	)

	data, err := b.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{"\n  \"expenses\": [", `"investments": []`, `"exportDate": "2024-03-10T14:05:09Z"`, `"amount": 10`} {
		if !strings.Contains(s, want) {
			t.Errorf("backup JSON missing %q:\n%s", want, s)
		}
	}

	res, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if res.Dropped != 0 || len(res.Expenses) != 1 || len(res.Investments) != 0 {
		t.Fatalf("ImportJSON() = %+v", res)
	}
	got := res.Expenses[0]
	if got.ID != "e1" || !got.Amount.Equal(decimal.NewFromInt(10)) || got.Category != core.Transport || got.Tags[0] != "bus" {
		t.Errorf("imported expense = %+v", got)
	}
	if !res.ExportDate.Equal(now) {
		t.Errorf("ExportDate = %v", res.ExportDate)
	}
}

func TestImportJSON_Lenient(t *testing.T) {
	data := []byte(`{
		"expenses": [
			{"amount": "42.5", "category": "snacks", "date": "2024-01-05T10:00:00.000Z"},
			{"id": "bad", "amount": 1, "category": "Food", "date": "yesterday"},
			{"id": "neg", "amount": -3, "category": "Food", "date": "2024-01-06"}
		],
		"investments": [
			{"id": "i1", "amount": 100, "type": "Bonds", "date": "2024-01-01", "currentValue": null}
		]
	}`)

	res, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
	if len(res.Expenses) != 2 {
		t.Fatalf("Expenses = %+v", res.Expenses)
	}
	first := res.Expenses[0]
	if first.ID == "" || first.Category != core.Other || !first.Amount.Equal(decimal.RequireFromString("42.5")) {
		t.Errorf("first expense = %+v", first)
	}
	if !first.Date.Equal(core.NewDate(2024, 1, 5)) {
		t.Errorf("first expense date = %s", first.Date)
	}
	if !res.Expenses[1].Amount.IsZero() {
		t.Errorf("negative amount should load as zero, got %s", res.Expenses[1].Amount)
	}
	inv := res.Investments[0]
	if inv.Type != core.OtherAsset || !inv.Current().Equal(decimal.NewFromInt(100)) {
		t.Errorf("investment = %+v", inv)
	}
}

func TestImportJSON_Invalid(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2]", `{"expenses": 5}`} {
		if _, err := ImportJSON([]byte(body)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("ImportJSON(%q) error = %v, want ErrInvalidJSON", body, err)
		}
	}
}

func TestFileNames(t *testing.T) {
	now := time.Date(2024, 7, 4, 9, 3, 7, 0, time.UTC)
	tests := []struct {
		got, want string
	}{
		{ExpensesFileName(now), "expenses_2024-07-04.csv"},
		{InvestmentsFileName(now), "investments_2024-07-04.csv"},
		{BackupFileName(now), "expense-tracker-backup_2024-07-04_090307.json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("file name = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestBackupWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	w := NewBackupWriter(dir, 2)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	if names, err := w.List(); err != nil || len(names) != 0 {
		t.Fatalf("List() on missing dir = %v, %v", names, err)
	}

	// an unrelated file is left alone
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Hour)
		p, err := w.Write(NewBackup(nil, nil, clock))
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		paths = append(paths, p)
	}

	names, err := w.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Base(paths[1]), filepath.Base(paths[2])}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("List() = %v, want %v", names, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}

	data, err := os.ReadFile(paths[2])
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ImportJSON(data); err != nil {
		t.Errorf("written backup does not import: %v", err)
	}
}
