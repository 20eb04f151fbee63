// Package storage provides the BBolt database that keeps labelled ciphertexts.
//
// Database structure uses three buckets:
//   - config: format version, timestamps, store ID
//   - index: label -> Entry (sizes, creation time, entry ID) as JSON
//   - blobs: label -> ciphertext
//
// Only ciphertext produced by the cipher engine is stored. Passphrases and
// derived keys never touch the database; a stored entry is unreadable
// without re-deriving the key from its passphrase.
package storage
