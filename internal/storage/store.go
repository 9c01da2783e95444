package storage

import (
	"context"
	"errors"
	"sync"
)

// Keys under which each collection is persisted. They are shared by every
// backend so a backup taken from one can be restored into another.
const (
	KeyExpenses    = "expense_tracker_expenses"
	KeyInvestments = "expense_tracker_investments"
	KeyBudgets     = "expense_tracker_budgets"
	KeySettings    = "expense_tracker_settings"
)

// AllKeys lists every key the tracker writes.
var AllKeys = []string{KeyExpenses, KeyInvestments, KeyBudgets, KeySettings}

var ErrClosed = errors.New("store is closed")

// BlobStore is a string-keyed byte store. Get reports ok=false for a missing
// key; that is not an error.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
