// Package core wires passphrases, the key derivation and the cipher engine
// together for the qpasswd commands.
//
// Core operations include:
//   - Crypter.Seal/Open: derive key and IV from a passphrase, then encrypt or decrypt
//   - Crypter.Fingerprint: random art of the derived key
//   - Store: keep labelled ciphertexts in the bbolt store and diff them against local files
//
// Key derivation is deliberately slow relative to the cipher, so Seal and
// Open run the work on a separate goroutine and return early when the
// caller's context is cancelled. Keys are re-derived on every call and
// zeroed afterwards; nothing is cached.
package core
