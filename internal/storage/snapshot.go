package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"smartspend/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SnapshotSlot is the key the full transaction collection is stored under.
const SnapshotSlot = "smartspend_transactions"

// SnapshotStore keeps the collection in memory and mirrors it wholesale into
// a single row of a local SQLite database on every mutation. There is no
// diffing and no versioning: last write wins.
type SnapshotStore struct {
	db *sql.DB

	mu  sync.Mutex
	txs []core.Transaction
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SnapshotStore{db: db}
	s.txs = s.load(context.Background())
	return s, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// load reads the snapshot slot and fails soft: a missing row or a payload
// that does not parse yields the seed set, never an error. A corrupt
// snapshot is overwritten with the seed on the next save.
func (s *SnapshotStore) load(ctx context.Context) []core.Transaction {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE slot = ?`, SnapshotSlot,
	).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		slog.InfoContext(ctx, "No persisted snapshot, starting from seed", "slot", SnapshotSlot)
		return SeedTransactions()
	case err != nil:
		slog.WarnContext(ctx, "Snapshot read failed, falling back to seed", "slot", SnapshotSlot, "error", err)
		return SeedTransactions()
	}

	var txs []core.Transaction
	if err := json.Unmarshal([]byte(payload), &txs); err != nil {
		slog.WarnContext(ctx, "Snapshot payload unparseable, falling back to seed", "slot", SnapshotSlot, "error", err)
		return SeedTransactions()
	}
	return txs
}

// save rewrites the whole snapshot. Callers must hold s.mu.
func (s *SnapshotStore) save(ctx context.Context) error {
	payload, err := json.Marshal(s.txs)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (slot, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		SnapshotSlot, string(payload))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) List(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

func (s *SnapshotStore) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := d.WithID(uuid.NewString())
	s.txs = append([]core.Transaction{tx}, s.txs...)
	if err := s.save(ctx); err != nil {
		s.txs = s.txs[1:]
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category,
		"date", tx.Date)
	return tx, nil
}

func (s *SnapshotStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.txs[:0:0]
	removed := false
	for _, t := range s.txs {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		slog.DebugContext(ctx, "Remove of unknown transaction ignored", "id", id)
		return nil
	}

	prev := s.txs
	s.txs = kept
	if err := s.save(ctx); err != nil {
		s.txs = prev
		return err
	}
	slog.InfoContext(ctx, "Transaction removed", "id", id)
	return nil
}
