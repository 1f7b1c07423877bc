package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"

	"smartspend/internal/core"
)

func newTestStore(t *testing.T) (*SnapshotStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "smartspend.db")
	s, err := NewSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("NewSnapshotStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func TestFreshStoreStartsFromSeed(t *testing.T) {
	s, _ := newTestStore(t)
	txs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(txs, SeedTransactions()) {
		t.Fatalf("fresh store = %+v, want seed set", txs)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, dbPath := newTestStore(t)

	added, err := s.Add(ctx, core.Draft{
		Amount:      core.Money{Cents: 1520},
		Category:    core.CategoryTransport,
		Description: "Metro card",
		Date:        "2024-05-16",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	want, _ := s.List(ctx)
	s.Close()

	// A new store over the same file must rehydrate the identical
	// collection: same order, same fields.
	reopened, err := NewSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, _ := reopened.List(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
	if got[0].ID != added.ID {
		t.Fatalf("newest transaction not first: got %s, want %s", got[0].ID, added.ID)
	}
}

func TestCorruptSnapshotFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	s, dbPath := newTestStore(t)
	s.Close()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO snapshots (slot, payload) VALUES (?, ?)
		 ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload`,
		SnapshotSlot, `{"not": "an array"`,
	); err != nil {
		t.Fatalf("corrupt snapshot: %v", err)
	}
	db.Close()

	reopened, err := NewSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("reopen over corrupt snapshot: %v", err)
	}
	defer reopened.Close()
	txs, _ := reopened.List(ctx)
	if !reflect.DeepEqual(txs, SeedTransactions()) {
		t.Fatalf("corrupt snapshot should yield seed set, got %+v", txs)
	}
}

func TestAddThenRemoveRestoresCollection(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	before, _ := s.List(ctx)
	tx, err := s.Add(ctx, core.Draft{
		Amount:      core.Money{Cents: 700},
		Category:    core.CategoryFood,
		Description: "Bagel",
		Date:        "2024-05-16",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	after, _ := s.List(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("add+remove changed the collection:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	before, _ := s.List(ctx)
	if err := s.Remove(ctx, "no-such-id"); err != nil {
		t.Fatalf("Remove unknown id returned error: %v", err)
	}
	after, _ := s.List(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatal("remove of unknown id mutated the collection")
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		tx, err := s.Add(ctx, core.Draft{
			Amount:      core.Money{Cents: 100},
			Category:    core.CategoryOther,
			Description: "x",
			Date:        "2024-05-16",
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %s", tx.ID)
		}
		seen[tx.ID] = true
	}
}
