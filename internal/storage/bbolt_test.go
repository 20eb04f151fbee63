package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) (*Storage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.qpasswd.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	return db, dbPath
}

func TestOpenAndInitialize(t *testing.T) {
	db, _ := openTestStore(t)

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}

	before, err := db.GetModified()
	if err != nil {
		t.Fatalf("Failed to get modified time: %v", err)
	}

	// Initializing again must not fail or reset anything
	if err := db.Initialize(); err != nil {
		t.Fatalf("Second Initialize failed: %v", err)
	}
	after, err := db.GetModified()
	if err != nil {
		t.Fatalf("Failed to get modified time: %v", err)
	}
	if !before.Equal(after) {
		t.Error("Re-initializing should not touch timestamps")
	}
}

func TestStoreID(t *testing.T) {
	db, _ := openTestStore(t)

	id1, err := db.GetOrCreateStoreID()
	if err != nil {
		t.Fatalf("Failed to create store ID: %v", err)
	}
	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("Store ID is not a UUID: %q", id1)
	}

	id2, err := db.GetOrCreateStoreID()
	if err != nil {
		t.Fatalf("Failed to get store ID: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Store ID changed: %q -> %q", id1, id2)
	}
}

func TestPutGetRemove(t *testing.T) {
	db, _ := openTestStore(t)

	ciphertext := []byte("0123456789abcdef0123456789abcdef")
	entry, err := db.Put("bank", ciphertext, 20)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if entry.Label != "bank" || entry.Size != 20 || entry.CipherSize != int64(len(ciphertext)) {
		t.Errorf("Unexpected entry: %+v", entry)
	}

	got, err := db.Get("bank")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(ciphertext) {
		t.Errorf("Data mismatch: got %v, want %v", got, ciphertext)
	}

	meta, err := db.GetEntry("bank")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if meta.ID != entry.ID {
		t.Errorf("Entry ID mismatch: got %q, want %q", meta.ID, entry.ID)
	}

	if err := db.Remove("bank"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := db.Get("bank"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after removal, got %v", err)
	}
	if _, err := db.GetEntry("bank"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for entry after removal, got %v", err)
	}
	if err := db.Remove("bank"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound removing twice, got %v", err)
	}
}

func TestPutReplaces(t *testing.T) {
	db, _ := openTestStore(t)

	first, err := db.Put("mail", []byte("first-ciphertext"), 5)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, err := db.Put("mail", []byte("second-ciphertext"), 6)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("Replacing an entry should assign a new ID")
	}

	entries, err := db.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Size != 6 {
		t.Errorf("Expected replaced size 6, got %d", entries[0].Size)
	}
}

func TestPutEmptyLabel(t *testing.T) {
	db, _ := openTestStore(t)

	if _, err := db.Put("", []byte("x"), 1); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("Expected ErrEmptyLabel, got %v", err)
	}
}

func TestListSorted(t *testing.T) {
	db, _ := openTestStore(t)

	for _, label := range []string{"zeta", "alpha", "mid"} {
		if _, err := db.Put(label, []byte("ciphertext"), 1); err != nil {
			t.Fatalf("Put(%s) failed: %v", label, err)
		}
	}

	entries, err := db.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Label != want[i] {
			t.Errorf("Entry %d: got %q, want %q", i, e.Label, want[i])
		}
	}
}

func TestPersistenceAndCompact(t *testing.T) {
	db, dbPath := openTestStore(t)

	if _, err := db.Put("keep", []byte("data-to-keep"), 4); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := db.Put("drop", make([]byte, 64*1024), 64*1024); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := db.Remove("drop"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if db.Path() != dbPath {
		t.Errorf("Path changed after compaction: %q", db.Path())
	}
	db.Close()

	// Reopen and verify
	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	data, err := db2.Get("keep")
	if err != nil {
		t.Fatalf("Get failed after reopen: %v", err)
	}
	if string(data) != "data-to-keep" {
		t.Error("Data not persisted correctly")
	}
	if _, err := db2.Get("drop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Removed entry survived compaction: %v", err)
	}
}

func TestUninitializedStore(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "raw.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("IsInitialized failed: %v", err)
	}
	if initialized {
		t.Error("Fresh database should not be initialized")
	}
	if _, err := db.Put("x", []byte("y"), 1); !errors.Is(err, ErrBucketAbsent) {
		t.Errorf("Expected ErrBucketAbsent, got %v", err)
	}
	entries, err := db.List()
	if err != nil || len(entries) != 0 {
		t.Errorf("List on fresh store: %v, %v", entries, err)
	}
}
