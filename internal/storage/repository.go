package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Repository maps the tracker collections onto a BlobStore, one JSON document
// per key.
//
// Loading never fails on bad data: a blob that does not parse yields the
// collection's default and a warning, and individual records with an
// unreadable date are dropped. Only backend I/O errors reach the caller.
type Repository struct {
	store BlobStore
}

func NewRepository(store BlobStore) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying backend, e.g. for Close.
func (r *Repository) Store() BlobStore {
	return r.store
}

func (r *Repository) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	return loadRecords[core.Expense](ctx, r.store, KeyExpenses)
}

func (r *Repository) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return r.put(ctx, KeyExpenses, expenses)
}

func (r *Repository) LoadInvestments(ctx context.Context) ([]core.Investment, error) {
	return loadRecords[core.Investment](ctx, r.store, KeyInvestments)
}

func (r *Repository) SaveInvestments(ctx context.Context, investments []core.Investment) error {
	if investments == nil {
		investments = []core.Investment{}
	}
	return r.put(ctx, KeyInvestments, investments)
}

// LoadBudgets returns the default budgets when none are stored yet.
func (r *Repository) LoadBudgets(ctx context.Context) (core.Budgets, error) {
	var budgets core.Budgets
	found, err := r.get(ctx, KeyBudgets, &budgets)
	if err != nil {
		return nil, err
	}
	if !found || budgets == nil {
		return core.DefaultBudgets(), nil
	}
	for c, v := range budgets {
		if v.IsNegative() {
			budgets[c] = decimal.Zero
		}
	}
	return budgets, nil
}

func (r *Repository) SaveBudgets(ctx context.Context, budgets core.Budgets) error {
	if budgets == nil {
		budgets = core.Budgets{}
	}
	return r.put(ctx, KeyBudgets, budgets)
}

func (r *Repository) LoadSettings(ctx context.Context) (core.Settings, error) {
	settings := core.DefaultSettings()
	found, err := r.get(ctx, KeySettings, &settings)
	if err != nil {
		return core.Settings{}, err
	}
	if !found {
		return core.DefaultSettings(), nil
	}
	return settings, nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings core.Settings) error {
	return r.put(ctx, KeySettings, settings)
}

// LoadState reads every collection.
func (r *Repository) LoadState(ctx context.Context) (core.State, error) {
	var (
		st  core.State
		err error
	)
	if st.Expenses, err = r.LoadExpenses(ctx); err != nil {
		return core.State{}, err
	}
	if st.Investments, err = r.LoadInvestments(ctx); err != nil {
		return core.State{}, err
	}
	if st.Budgets, err = r.LoadBudgets(ctx); err != nil {
		return core.State{}, err
	}
	if st.Settings, err = r.LoadSettings(ctx); err != nil {
		return core.State{}, err
	}
	return st, nil
}

// ClearAll removes every stored collection.
func (r *Repository) ClearAll(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	slog.InfoContext(ctx, "Cleared all stored data")
	return nil
}

func (r *Repository) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// get decodes the blob at key into v. A corrupt blob is logged and reported
// as not found.
func (r *Repository) get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.WarnContext(ctx, "Stored data is corrupt, using defaults", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func loadRecords[T any, PT interface {
	*T
	json.Unmarshaler
}](ctx context.Context, store BlobStore, key string) ([]T, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	out := []T{}
	if !ok {
		return out, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.WarnContext(ctx, "Stored data is corrupt, using defaults", "key", key, "error", err)
		return out, nil
	}

	dropped := 0
	for _, item := range raw {
		var rec T
		if err := PT(&rec).UnmarshalJSON(item); err != nil {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "Dropped unreadable records", "key", key, "dropped", dropped, "kept", len(out))
	}
	return out, nil
}
