package history

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/placefeed/placefeed/internal/domain/history"
)

func newTestStore(t *testing.T, maxEntries int) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "history.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewSQLiteStore(path, maxEntries, logger)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(i int) history.Record {
	return history.Record{
		ID:      fmt.Sprintf("rec-%03d", i),
		At:      time.Unix(1700000000+int64(i), 0).UTC(),
		Op:      history.OpCardAdded,
		Subject: fmt.Sprintf("card-%d", i),
		Detail:  "Peak",
	}
}

func TestAppendAndListNewestFirst(t *testing.T) {
	store := newTestStore(t, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Append(ctx, testRecord(i)); err != nil {
			t.Fatalf("Append(%d) error: %v", i, err)
		}
	}

	got, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(got))
	}
	for i, want := range []string{"rec-002", "rec-001", "rec-000"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	store := newTestStore(t, 100)
	ctx := context.Background()

	rec := history.Record{
		ID:      "rec-1",
		At:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Op:      history.OpProfileUpdated,
		Subject: "me",
		Detail:  "Jacques",
	}
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(got))
	}
	if got[0] != rec {
		t.Errorf("round trip changed the record: got %+v, want %+v", got[0], rec)
	}
}

func TestListHonorsLimit(t *testing.T) {
	store := newTestStore(t, 100)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, testRecord(i)); err != nil {
			t.Fatalf("Append(%d) error: %v", i, err)
		}
	}

	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List(2) returned %d records", len(got))
	}
	if got[0].ID != "rec-004" || got[1].ID != "rec-003" {
		t.Errorf("List(2) = %s, %s; want the two newest", got[0].ID, got[1].ID)
	}
}

func TestEvictionKeepsNewest(t *testing.T) {
	store := newTestStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, testRecord(i)); err != nil {
			t.Fatalf("Append(%d) error: %v", i, err)
		}
	}

	got, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("store holds %d records after eviction, want 3", len(got))
	}
	for i, want := range []string{"rec-004", "rec-003", "rec-002"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestReopenSeesPersistedRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	store, err := NewSQLiteStore(path, 100, logger)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	if err := store.Append(ctx, testRecord(0)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := NewSQLiteStore(path, 100, logger)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec-000" {
		t.Errorf("reopened store lists %+v, want the persisted record", got)
	}
}
