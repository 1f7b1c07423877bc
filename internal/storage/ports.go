package storage

import (
	"context"

	"smartspend/internal/core"
)

// TransactionStore is the port the service layer talks to. Implementations
// own the collection exclusively: newest-first insertion order, full snapshot
// rewrite on every mutation.
type TransactionStore interface {
	// List returns a copy of the current collection.
	List(ctx context.Context) ([]core.Transaction, error)

	// Add assigns a fresh ID to the draft, prepends the transaction and
	// persists the whole collection.
	Add(ctx context.Context, d core.Draft) (core.Transaction, error)

	// Remove drops the transaction with the given ID and persists. Removing
	// an unknown ID is a no-op, not an error.
	Remove(ctx context.Context, id string) error

	Close() error
}
