package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestRepositoryDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryStore())

	st, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st.Expenses == nil || len(st.Expenses) != 0 {
		t.Errorf("expenses = %#v", st.Expenses)
	}
	if len(st.Investments) != 0 {
		t.Errorf("investments = %v", st.Investments)
	}
	if len(st.Budgets) != len(core.DefaultBudgets()) {
		t.Errorf("budgets = %v", st.Budgets)
	}
	if st.Settings.Theme != core.Light || !st.Settings.AccountBalance.IsZero() {
		t.Errorf("settings = %+v", st.Settings)
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store)

	expenses := []core.Expense{{
		ID:       "e1",
		Amount:   decimal.RequireFromString("12.50"),
		Category: core.Food,
		Date:     core.NewDate(2024, 1, 5),
		Notes:    "lunch",
		Tags:     []string{"work"},
	}}
	investments := []core.Investment{{
		ID:           "i1",
		Amount:       decimal.NewFromInt(100),
		CurrentValue: decimal.NewNullDecimal(decimal.NewFromInt(150)),
		Type:         core.Stocks,
		Date:         core.NewDate(2024, 1, 1),
	}}
	budgets := core.Budgets{core.Food: decimal.NewFromInt(120)}

	if err := repo.SaveExpenses(ctx, expenses); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveInvestments(ctx, investments); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveBudgets(ctx, budgets); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveSettings(ctx, core.Settings{Theme: core.Dark, AccountBalance: decimal.NewFromInt(5000)}); err != nil {
		t.Fatal(err)
	}

	st, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Expenses) != 1 || st.Expenses[0].ID != "e1" || !st.Expenses[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("expenses = %+v", st.Expenses)
	}
	if st.Expenses[0].Date.String() != "2024-01-05" || st.Expenses[0].Tags[0] != "work" {
		t.Errorf("expense = %+v", st.Expenses[0])
	}
	if len(st.Investments) != 1 || !st.Investments[0].Current().Equal(decimal.NewFromInt(150)) {
		t.Errorf("investments = %+v", st.Investments)
	}
	if len(st.Budgets) != 1 || !st.Budgets[core.Food].Equal(decimal.NewFromInt(120)) {
		t.Errorf("budgets = %v", st.Budgets)
	}
	if st.Settings.Theme != core.Dark || !st.Settings.AccountBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("settings = %+v", st.Settings)
	}

	raw, _, _ := store.Get(ctx, KeyExpenses)
	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("stored expenses are not a JSON array: %v", err)
	}
	if decoded[0]["amount"] != 12.5 {
		t.Errorf("amount stored as %#v", decoded[0]["amount"])
	}
}

func TestRepositoryCorruptBlobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store)

	for _, key := range AllKeys {
		_ = store.Put(ctx, key, []byte("{not json"))
	}

	st, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("corrupt data must not error: %v", err)
	}
	if len(st.Expenses) != 0 || len(st.Investments) != 0 {
		t.Errorf("expected empty collections, got %+v", st)
	}
	if len(st.Budgets) != len(core.DefaultBudgets()) {
		t.Errorf("budgets = %v", st.Budgets)
	}
	if st.Settings.Theme != core.Light || !st.Settings.AccountBalance.IsZero() {
		t.Errorf("settings = %+v", st.Settings)
	}
}

func TestRepositoryDropsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store)

	_ = store.Put(ctx, KeyExpenses, []byte(`[
		{"id":"ok","amount":"7","category":"Groceries","date":"2024-02-01T10:00:00Z"},
		{"id":"bad","amount":3,"category":"Food","date":"yesterday"},
		{"id":"neg","amount":-4,"category":"food","date":"2024-02-02"}
	]`))

	got, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "ok" || got[1].ID != "neg" {
		t.Fatalf("got %+v", got)
	}
	if got[0].Category != core.Other || !got[0].Amount.Equal(decimal.NewFromInt(7)) {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Category != core.Food || !got[1].Amount.IsZero() {
		t.Errorf("second = %+v", got[1])
	}
}

func TestRepositoryClearAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store)

	_ = repo.SaveExpenses(ctx, nil)
	_ = repo.SaveInvestments(ctx, nil)
	_ = repo.SaveBudgets(ctx, core.DefaultBudgets())
	_ = repo.SaveSettings(ctx, core.DefaultSettings())
	if err := repo.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	for _, key := range AllKeys {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("%s survived ClearAll", key)
		}
	}
}

func TestRepositoryPropagatesStoreErrors(t *testing.T) {
	store := NewMemoryStore()
	store.Close()
	repo := NewRepository(store)

	if _, err := repo.LoadExpenses(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("LoadExpenses err = %v", err)
	}
	if err := repo.SaveBudgets(context.Background(), core.DefaultBudgets()); !errors.Is(err, ErrClosed) {
		t.Errorf("SaveBudgets err = %v", err)
	}
}
