package core

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/illarion/qpasswd/internal/logger"
	"github.com/illarion/qpasswd/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "store.db"), newTestCrypter(), logger.Nop())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pass := []byte("correct horse")

	entry, err := s.Put(ctx, "greeting", pass, []byte("hello world"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if entry.Size != 11 || entry.CipherSize != 16 {
		t.Errorf("Unexpected entry sizes: %+v", entry)
	}

	sealed, err := s.Sealed("greeting")
	if err != nil {
		t.Fatalf("Sealed failed: %v", err)
	}
	if strings.Contains(string(sealed), "hello") {
		t.Error("Stored data should be ciphertext")
	}

	plaintext, err := s.Get(ctx, "greeting", pass)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(plaintext) != "hello world" {
		t.Errorf("Got %q, want hello world", plaintext)
	}
}

func TestStoreMissingLabel(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get(context.Background(), "nope", []byte("pass")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected storage.ErrNotFound, got %v", err)
	}
	if err := s.Remove("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected storage.ErrNotFound, got %v", err)
	}
}

func TestStoreDiff(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pass := []byte("pass")

	if _, err := s.Put(ctx, "cfg", pass, []byte("a=1\nb=2\n")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	diff, err := s.Diff(ctx, "cfg", pass, []byte("a=1\nb=2\n"))
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != "" {
		t.Errorf("Expected no diff, got:\n%s", diff)
	}

	diff, err = s.Diff(ctx, "cfg", pass, []byte("a=1\nb=3\n"))
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if !strings.Contains(diff, "+b=3") {
		t.Errorf("Expected changed line in diff:\n%s", diff)
	}
}

func TestStoreListRemoveCompact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, label := range []string{"b", "a"} {
		if _, err := s.Put(ctx, label, []byte("pass"), []byte("payload "+label)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Label != "a" {
		t.Fatalf("Unexpected entries: %+v", entries)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	entries, err = s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "b" {
		t.Errorf("Unexpected entries after remove: %+v", entries)
	}
}

func TestStoreIDAndModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	s, err := OpenStore(path, newTestCrypter(), logger.Nop())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	id := s.ID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Store id %q is not a UUID: %v", id, err)
	}

	before, err := s.Modified()
	if err != nil {
		t.Fatalf("Modified failed: %v", err)
	}
	if _, err := s.Put(context.Background(), "x", []byte("pass"), []byte("data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	after, err := s.Modified()
	if err != nil {
		t.Fatalf("Modified failed: %v", err)
	}
	if after.Before(before) {
		t.Errorf("Modified went backwards: %v -> %v", before, after)
	}
	s.Close()

	reopened, err := OpenStore(path, newTestCrypter(), logger.Nop())
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()
	if reopened.ID() != id {
		t.Errorf("Store id changed on reopen: %s -> %s", id, reopened.ID())
	}
}

func TestStoreDetectsTruncatedBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	s, err := OpenStore(path, newTestCrypter(), logger.Nop())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if _, err := s.Put(ctx, "cfg", []byte("pass"), []byte("a longer payload spanning blocks")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s.Close()

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatalf("bolt.Open failed: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		blobs := tx.Bucket(storage.BlobsBucket)
		blob := append([]byte(nil), blobs.Get([]byte("cfg"))...)
		return blobs.Put([]byte("cfg"), blob[:16])
	})
	db.Close()
	if err != nil {
		t.Fatalf("Failed to truncate blob: %v", err)
	}

	s, err = OpenStore(path, newTestCrypter(), logger.Nop())
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "cfg", []byte("pass")); !errors.Is(err, ErrCorruptEntry) {
		t.Errorf("Expected ErrCorruptEntry, got %v", err)
	}
}
