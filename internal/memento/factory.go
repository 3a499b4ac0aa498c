package memento

import (
	"context"
	"strings"
)

// NewLedger creates a postgres-backed ledger when configured, otherwise
// in-memory.
func NewLedger(ctx context.Context, databaseURL string) (Ledger, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryLedger(), nil
	}
	return NewPostgresLedger(ctx, databaseURL)
}
