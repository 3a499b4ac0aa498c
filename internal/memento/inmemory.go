package memento

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryLedger keeps mementos in a process-local map. This is the default
// ledger; records live for the process lifetime only.
type InMemoryLedger struct {
	mu      sync.RWMutex
	records map[string]Memento
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{records: make(map[string]Memento)}
}

func (l *InMemoryLedger) Put(_ context.Context, m Memento) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	l.records[m.ID] = m
	return nil
}

func (l *InMemoryLedger) Get(_ context.Context, id string) (Memento, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.records[id]
	if !ok {
		return Memento{}, ErrNotFound
	}
	return m, nil
}

func (l *InMemoryLedger) Close() error { return nil }
