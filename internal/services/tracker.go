// Package services holds the stateful side of the tracker: the in-memory
// collections, their persistence after each mutation, change notifications
// and recurring expense generation.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var ErrNotFound = errors.New("not found")

// Collection names used in change events.
const (
	CollectionExpenses    = "expenses"
	CollectionInvestments = "investments"
	CollectionBudgets     = "budgets"
	CollectionSettings    = "settings"
	CollectionAll         = "all"
)

// EventPublisher receives a message after every successful mutation.
type EventPublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// State is a point-in-time copy of the tracker data. Version increases by
// one with every mutation and is used to key derived reports.
type State struct {
	core.State
	Version uint64 `json:"version"`
}

// Tracker owns the tracked collections. Every mutation validates its input,
// writes the affected collection to the repository, and only then updates
// the in-memory copy, so a failed write leaves the tracker unchanged.
type Tracker struct {
	mu        sync.RWMutex
	repo      *storage.Repository
	publisher EventPublisher
	state     core.State
	version   uint64

	now   func() time.Time
	newID func() string
}

// NewTracker loads the stored state. publisher may be nil.
func NewTracker(ctx context.Context, repo *storage.Repository, publisher EventPublisher) (*Tracker, error) {
	st, err := repo.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	slog.InfoContext(ctx, "Tracker state loaded",
		"expenses", len(st.Expenses),
		"investments", len(st.Investments),
		"budgets", len(st.Budgets))

	return &Tracker{
		repo:      repo,
		publisher: publisher,
		state:     st,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return State{State: t.state.Clone(), Version: t.version}
}

func (t *Tracker) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Expense returns the expense with the given ID.
func (t *Tracker) Expense(id string) (core.Expense, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := indexOf(t.state.Expenses, id, func(e core.Expense) string { return e.ID })
	if i < 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	return t.state.Expenses[i].Clone(), nil
}

// AddExpense stores a new expense at the front of the list and returns it
// with its assigned ID and creation time.
func (t *Tracker) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = normalizeExpense(e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e.ID = t.newID()
	e.CreatedAt = t.now().UTC()

	next := append([]core.Expense{e}, t.state.Expenses...)
	if err := t.repo.SaveExpenses(ctx, next); err != nil {
		return core.Expense{}, err
	}
	t.state.Expenses = next
	t.changed(ctx, CollectionExpenses, "create", e.ID, len(next))
	return e.Clone(), nil
}

// UpdateExpense replaces the stored expense with the same ID, keeping its
// creation time and recurring bookkeeping.
func (t *Tracker) UpdateExpense(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	e = normalizeExpense(e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.state.Expenses, id, func(e core.Expense) string { return e.ID })
	if i < 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	stored := t.state.Expenses[i]
	e.ID = id
	e.CreatedAt = stored.CreatedAt
	e.RecurringFrom = stored.RecurringFrom
	e.LastGenerated = stored.LastGenerated

	next := slices.Clone(t.state.Expenses)
	next[i] = e
	if err := t.repo.SaveExpenses(ctx, next); err != nil {
		return core.Expense{}, err
	}
	t.state.Expenses = next
	t.changed(ctx, CollectionExpenses, "update", id, len(next))
	return e.Clone(), nil
}

// AddOccurrence stores occ as an occurrence of the recurring template with
// the given ID and records its date on the template, in a single write.
func (t *Tracker) AddOccurrence(ctx context.Context, templateID string, occ core.Expense) (core.Expense, error) {
	occ.IsRecurring = false
	occ = normalizeExpense(occ)
	if err := occ.Validate(); err != nil {
		return core.Expense{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.state.Expenses, templateID, func(e core.Expense) string { return e.ID })
	if i < 0 || !t.state.Expenses[i].IsRecurring {
		return core.Expense{}, fmt.Errorf("recurring expense %s: %w", templateID, ErrNotFound)
	}
	occ.ID = t.newID()
	occ.CreatedAt = t.now().UTC()
	occ.RecurringFrom = templateID
	occ.LastGenerated = core.Date{}

	next := make([]core.Expense, 0, len(t.state.Expenses)+1)
	next = append(next, occ)
	next = append(next, t.state.Expenses...)
	next[i+1].LastGenerated = occ.Date
	if err := t.repo.SaveExpenses(ctx, next); err != nil {
		return core.Expense{}, err
	}
	t.state.Expenses = next
	t.changed(ctx, CollectionExpenses, "create", occ.ID, len(next))
	return occ.Clone(), nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.state.Expenses, id, func(e core.Expense) string { return e.ID })
	if i < 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	next := slices.Delete(slices.Clone(t.state.Expenses), i, i+1)
	if err := t.repo.SaveExpenses(ctx, next); err != nil {
		return err
	}
	t.state.Expenses = next
	t.changed(ctx, CollectionExpenses, "delete", id, len(next))
	return nil
}

func (t *Tracker) AddInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	inv.ID = t.newID()
	inv.CreatedAt = t.now().UTC()

	next := append([]core.Investment{inv}, t.state.Investments...)
	if err := t.repo.SaveInvestments(ctx, next); err != nil {
		return core.Investment{}, err
	}
	t.state.Investments = next
	t.changed(ctx, CollectionInvestments, "create", inv.ID, len(next))
	return inv, nil
}

func (t *Tracker) UpdateInvestment(ctx context.Context, id string, inv core.Investment) (core.Investment, error) {
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.state.Investments, id, func(v core.Investment) string { return v.ID })
	if i < 0 {
		return core.Investment{}, fmt.Errorf("investment %s: %w", id, ErrNotFound)
	}
	inv.ID = id
	inv.CreatedAt = t.state.Investments[i].CreatedAt

	next := slices.Clone(t.state.Investments)
	next[i] = inv
	if err := t.repo.SaveInvestments(ctx, next); err != nil {
		return core.Investment{}, err
	}
	t.state.Investments = next
	t.changed(ctx, CollectionInvestments, "update", id, len(next))
	return inv, nil
}

func (t *Tracker) DeleteInvestment(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.state.Investments, id, func(v core.Investment) string { return v.ID })
	if i < 0 {
		return fmt.Errorf("investment %s: %w", id, ErrNotFound)
	}
	next := slices.Delete(slices.Clone(t.state.Investments), i, i+1)
	if err := t.repo.SaveInvestments(ctx, next); err != nil {
		return err
	}
	t.state.Investments = next
	t.changed(ctx, CollectionInvestments, "delete", id, len(next))
	return nil
}

// SetBudget creates or replaces the ceiling for one category.
func (t *Tracker) SetBudget(ctx context.Context, c core.Category, amount decimal.Decimal) error {
	if !c.Valid() {
		return core.ErrInvalidCategory
	}
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Budgets.Clone()
	next[c] = amount
	return t.saveBudgets(ctx, next, "update", string(c))
}

func (t *Tracker) RemoveBudget(ctx context.Context, c core.Category) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.Budgets[c]; !ok {
		return fmt.Errorf("budget %s: %w", c, ErrNotFound)
	}
	next := t.state.Budgets.Clone()
	delete(next, c)
	return t.saveBudgets(ctx, next, "delete", string(c))
}

// ReplaceBudgets swaps the whole budget map.
func (t *Tracker) ReplaceBudgets(ctx context.Context, budgets core.Budgets) error {
	if err := budgets.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveBudgets(ctx, budgets.Clone(), "replace", "")
}

func (t *Tracker) saveBudgets(ctx context.Context, next core.Budgets, op, id string) error {
	if err := t.repo.SaveBudgets(ctx, next); err != nil {
		return err
	}
	t.state.Budgets = next
	t.changed(ctx, CollectionBudgets, op, id, len(next))
	return nil
}

func (t *Tracker) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return core.ErrNegativeBalance
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Settings
	next.AccountBalance = balance
	return t.saveSettings(ctx, next)
}

func (t *Tracker) SetTheme(ctx context.Context, theme core.Theme) error {
	theme, err := core.ParseTheme(string(theme))
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Settings
	next.Theme = theme
	return t.saveSettings(ctx, next)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (t *Tracker) ToggleTheme(ctx context.Context) (core.Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Settings
	next.Theme = next.Theme.Toggle()
	if err := t.saveSettings(ctx, next); err != nil {
		return "", err
	}
	return next.Theme, nil
}

func (t *Tracker) saveSettings(ctx context.Context, next core.Settings) error {
	if err := t.repo.SaveSettings(ctx, next); err != nil {
		return err
	}
	t.state.Settings = next
	t.changed(ctx, CollectionSettings, "update", "", 1)
	return nil
}

// Import replaces the expense and investment collections with the given
// ones. Budgets and settings are kept.
func (t *Tracker) Import(ctx context.Context, expenses []core.Expense, investments []core.Investment) error {
	exp := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		exp = append(exp, normalizeExpense(e).Clone())
	}
	inv := slices.Clone(investments)
	if inv == nil {
		inv = []core.Investment{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.repo.SaveExpenses(ctx, exp); err != nil {
		return err
	}
	if err := t.repo.SaveInvestments(ctx, inv); err != nil {
		return err
	}
	t.state.Expenses = exp
	t.state.Investments = inv
	t.changed(ctx, CollectionAll, "import", "", len(exp)+len(inv))

	slog.InfoContext(ctx, "Imported data", "expenses", len(exp), "investments", len(inv))
	return nil
}

// ClearAll deletes every stored collection and resets to defaults.
func (t *Tracker) ClearAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.repo.ClearAll(ctx); err != nil {
		return err
	}
	t.state = core.NewState()
	t.changed(ctx, CollectionAll, "clear", "", 0)
	return nil
}

// changed bumps the version and publishes the change. Called with t.mu held.
func (t *Tracker) changed(ctx context.Context, collection, op, id string, count int) {
	t.version++

	slog.DebugContext(ctx, "Collection changed",
		"collection", collection,
		"operation", op,
		"id", id,
		"version", t.version)

	if t.publisher == nil {
		return
	}
	msg := amqp.NewChangeMessage(collection, op, id, t.version, count)
	if err := t.publisher.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"collection", collection,
			"version", t.version,
			"error", err)
	}
}

func normalizeExpense(e core.Expense) core.Expense {
	if e.IsRecurring && e.RecurringFrequency == "" {
		e.RecurringFrequency = core.Monthly
	}
	if !e.IsRecurring {
		e.RecurringFrequency = ""
	}
	tags := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		tags = append(tags, core.SplitTags(tag)...)
	}
	e.Tags = tags
	return e
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	return slices.IndexFunc(items, func(v T) bool { return key(v) == id })
}
