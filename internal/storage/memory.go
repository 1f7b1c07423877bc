package storage

import (
	"context"
	"sync"

	"smartspend/internal/core"

	"github.com/google/uuid"
)

// MemoryStore keeps the collection in memory only. It backs the "memory"
// data backend and the test suites; semantics match SnapshotStore minus
// persistence.
type MemoryStore struct {
	mu  sync.Mutex
	txs []core.Transaction
}

// NewMemoryStore seeds the store with the given collection, or with the
// built-in seed set when nil.
func NewMemoryStore(txs []core.Transaction) *MemoryStore {
	if txs == nil {
		txs = SeedTransactions()
	}
	owned := make([]core.Transaction, len(txs))
	copy(owned, txs)
	return &MemoryStore{txs: owned}
}

func (s *MemoryStore) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

func (s *MemoryStore) Add(_ context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := d.WithID(uuid.NewString())
	s.txs = append([]core.Transaction{tx}, s.txs...)
	return tx, nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.txs[:0:0]
	for _, t := range s.txs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.txs = kept
	return nil
}

func (s *MemoryStore) Close() error { return nil }
