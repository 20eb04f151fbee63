package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/illarion/qpasswd/internal/crypto"
	"github.com/illarion/qpasswd/internal/storage"
)

// ErrCorruptEntry means a stored ciphertext does not match its index record
var ErrCorruptEntry = errors.New("stored entry is corrupt")

// Store keeps labelled ciphertexts. Each entry is sealed with its own
// passphrase at Put time; the store itself has no master key.
type Store struct {
	db      *storage.Storage
	crypter *Crypter
	log     zerolog.Logger
	id      string
}

// OpenStore opens (creating if needed) the store database at path
func OpenStore(path string, crypter *Crypter, log zerolog.Logger) (*Store, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	initialized, err := db.IsInitialized()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect store: %w", err)
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	id, err := db.GetOrCreateStoreID()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read store id: %w", err)
	}

	s := &Store{
		db:      db,
		crypter: crypter,
		log:     log.With().Str("component", "store").Str("store_id", id).Logger(),
		id:      id,
	}
	if !initialized {
		s.log.Debug().Str("path", path).Msg("created store")
	}
	return s, nil
}

// ID returns the store's UUID
func (s *Store) ID() string {
	return s.id
}

// Modified returns when an entry was last added or removed
func (s *Store) Modified() (time.Time, error) {
	return s.db.GetModified()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.db.Path()
}

// Put encrypts plaintext and stores it under label
func (s *Store) Put(ctx context.Context, label string, passphrase, plaintext []byte) (*storage.Entry, error) {
	ciphertext, err := s.crypter.Seal(ctx, passphrase, plaintext)
	if err != nil {
		return nil, err
	}
	return s.PutSealed(label, ciphertext, int64(len(plaintext)))
}

// PutSealed stores already encrypted data under label
func (s *Store) PutSealed(label string, ciphertext []byte, plainSize int64) (*storage.Entry, error) {
	entry, err := s.db.Put(label, ciphertext, plainSize)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("label", label).Str("id", entry.ID).Int64("bytes", entry.CipherSize).Msg("stored")
	return entry, nil
}

// Sealed returns the raw ciphertext stored under label after checking it
// against the index record
func (s *Store) Sealed(label string) ([]byte, error) {
	entry, err := s.db.GetEntry(label)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.db.Get(label)
	if err != nil {
		return nil, err
	}
	if int64(len(ciphertext)) != entry.CipherSize {
		return nil, fmt.Errorf("%w: %s has %d bytes, index says %d", ErrCorruptEntry, label, len(ciphertext), entry.CipherSize)
	}
	return ciphertext, nil
}

// Get decrypts the entry stored under label.
// The caller is responsible for calling crypto.ClearBytes on the result.
func (s *Store) Get(ctx context.Context, label string, passphrase []byte) ([]byte, error) {
	ciphertext, err := s.Sealed(label)
	if err != nil {
		return nil, err
	}
	return s.crypter.Open(ctx, passphrase, ciphertext)
}

// List returns metadata for every entry; no passphrase is needed
func (s *Store) List() ([]storage.Entry, error) {
	return s.db.List()
}

// Remove deletes the entry stored under label
func (s *Store) Remove(label string) error {
	if err := s.db.Remove(label); err != nil {
		return err
	}
	s.log.Debug().Str("label", label).Msg("removed")
	return nil
}

// Diff decrypts the entry under label and compares it with local.
// It returns "" when the contents match.
func (s *Store) Diff(ctx context.Context, label string, passphrase, local []byte) (string, error) {
	stored, err := s.Get(ctx, label, passphrase)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(stored)

	return UnifiedDiff(label, stored, local), nil
}

// Compact reclaims space left by removed entries
func (s *Store) Compact() error {
	return s.db.Compact()
}
