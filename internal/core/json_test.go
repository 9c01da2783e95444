package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestExpenseUnmarshalIsLenient(t *testing.T) {
	raw := `{"id":"a1","amount":"12.5","category":"groceries","date":"2024-01-05T00:00:00.000Z",
		"notes":null,"tags":[" x ","",  "y"],"isRecurring":true,"createdAt":"2024-01-05T10:00:00Z"}`

	var e Expense
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("amount = %s", e.Amount)
	}
	if e.Category != Other {
		t.Errorf("unknown category should become Other, got %s", e.Category)
	}
	if e.Date.String() != "2024-01-05" {
		t.Errorf("date = %s", e.Date)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "x" || e.Tags[1] != "y" {
		t.Errorf("tags = %v", e.Tags)
	}
	if e.RecurringFrequency != Monthly {
		t.Errorf("recurring without frequency should default to monthly, got %q", e.RecurringFrequency)
	}
	if !e.CreatedAt.Equal(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("createdAt = %v", e.CreatedAt)
	}
}

func TestExpenseUnmarshalMissingAmountIsZero(t *testing.T) {
	var e Expense
	if err := json.Unmarshal([]byte(`{"id":"a","date":"2024-01-05"}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Amount.IsZero() || e.Category != Other {
		t.Fatalf("got amount=%s category=%s", e.Amount, e.Category)
	}
}

func TestExpenseUnmarshalRejectsBadDate(t *testing.T) {
	var e Expense
	if err := json.Unmarshal([]byte(`{"id":"a","amount":1,"date":"soon"}`), &e); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestExpenseMarshalShape(t *testing.T) {
	e := Expense{
		ID:       "x",
		Amount:   decimal.RequireFromString("100.50"),
		Category: Food,
		Date:     NewDate(2024, 1, 5),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"amount":100.5`, `"date":"2024-01-05"`, `"category":"Food"`, `"tags":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestInvestmentCurrentValueFallback(t *testing.T) {
	var inv Investment
	if err := json.Unmarshal([]byte(`{"id":"i","amount":100,"type":"Gold","date":"2024-03-01"}`), &inv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if inv.CurrentValue.Valid {
		t.Fatal("current value should be unset")
	}
	if !inv.Current().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("current = %s", inv.Current())
	}
	if inv.Type != Gold {
		t.Fatalf("type = %s", inv.Type)
	}
}

func TestBudgetsUnmarshalFoldsUnknownIntoOther(t *testing.T) {
	var b Budgets
	if err := json.Unmarshal([]byte(`{"Food":120,"Pets":"30","Other":10}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !b[Food].Equal(decimal.NewFromInt(120)) {
		t.Errorf("food = %s", b[Food])
	}
	if !b[Other].Equal(decimal.NewFromInt(40)) {
		t.Errorf("other = %s", b[Other])
	}
}

func TestSettingsDefaultsOnBadTheme(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{"theme":"neon","accountBalance":"2500"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Theme != Light || !s.AccountBalance.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("got %+v", s)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("lunch, work ,, team")
	if len(got) != 3 || got[1] != "work" {
		t.Fatalf("got %v", got)
	}
	if len(SplitTags("  ")) != 0 {
		t.Fatal("blank input should give no tags")
	}
}

func TestExpenseLastGeneratedPersists(t *testing.T) {
	e := Expense{ID: "t", Date: NewDate(2024, 1, 1), IsRecurring: true, RecurringFrequency: Weekly,
		LastGenerated: NewDate(2024, 1, 8)}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"lastGenerated":"2024-01-08"`) {
		t.Errorf("marshal = %s", b)
	}
	var back Expense
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.LastGenerated.Equal(e.LastGenerated) {
		t.Errorf("LastGenerated = %s", back.LastGenerated)
	}

	plain, _ := json.Marshal(Expense{ID: "p", Date: NewDate(2024, 1, 1)})
	if strings.Contains(string(plain), "lastGenerated") {
		t.Errorf("zero LastGenerated should be omitted: %s", plain)
	}
}
