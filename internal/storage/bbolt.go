package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Version, timestamps, store ID
	IndexBucket  = []byte("index")  // Entry metadata, readable without a passphrase
	BlobsBucket  = []byte("blobs")  // Ciphertexts
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigStoreID  = []byte("store_id")
)

var (
	ErrNotFound     = errors.New("entry not found")
	ErrEmptyLabel   = errors.New("empty label not allowed")
	ErrBucketAbsent = errors.New("store not initialized")
)

// Entry describes a stored ciphertext
type Entry struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Size       int64     `json:"size"`       // Plaintext size
	CipherSize int64     `json:"cipherSize"` // Stored ciphertext size
	Created    time.Time `json:"created"`
}

// Storage provides BBolt-based storage for qpasswd
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a store database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure. It is safe to call on an
// existing store; the creation time is kept.
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, IndexBucket, BlobsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrBucketAbsent
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetOrCreateStoreID retrieves the store ID, generating one on first use
func (s *Storage) GetOrCreateStoreID() (string, error) {
	var storeID string
	err := s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrBucketAbsent
		}
		if data := config.Get(ConfigStoreID); data != nil {
			storeID = string(data)
			return nil
		}
		storeID = uuid.NewString()
		return config.Put(ConfigStoreID, []byte(storeID))
	})
	return storeID, err
}

// Put stores ciphertext under label, replacing any previous entry
func (s *Storage) Put(label string, ciphertext []byte, plainSize int64) (*Entry, error) {
	if label == "" {
		return nil, ErrEmptyLabel
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		Label:      label,
		Size:       plainSize,
		CipherSize: int64(len(ciphertext)),
		Created:    time.Now().UTC(),
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		index, blobs, config := tx.Bucket(IndexBucket), tx.Bucket(BlobsBucket), tx.Bucket(ConfigBucket)
		if index == nil || blobs == nil || config == nil {
			return ErrBucketAbsent
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if err := index.Put([]byte(label), data); err != nil {
			return err
		}
		if err := blobs.Put([]byte(label), ciphertext); err != nil {
			return err
		}

		modified, _ := time.Now().MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Get returns the ciphertext stored under label
func (s *Storage) Get(label string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		blobs := tx.Bucket(BlobsBucket)
		if blobs == nil {
			return ErrBucketAbsent
		}
		data = blobs.Get([]byte(label))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, label)
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), data...)
		return nil
	})
	return data, err
}

// GetEntry returns the metadata stored under label
func (s *Storage) GetEntry(label string) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return ErrBucketAbsent
		}
		data := index.Get([]byte(label))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, label)
		}
		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	return entry, err
}

// List returns all entries sorted by label
func (s *Storage) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return nil
		}
		return index.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt index entry %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })
	return entries, err
}

// Remove deletes the entry stored under label
func (s *Storage) Remove(label string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		index, blobs, config := tx.Bucket(IndexBucket), tx.Bucket(BlobsBucket), tx.Bucket(ConfigBucket)
		if index == nil || blobs == nil || config == nil {
			return ErrBucketAbsent
		}
		if index.Get([]byte(label)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, label)
		}
		if err := index.Delete([]byte(label)); err != nil {
			return err
		}
		if err := blobs.Delete([]byte(label)); err != nil {
			return err
		}

		modified, _ := time.Now().MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting entries to reclaim disk space.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
