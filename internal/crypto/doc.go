// Package crypto provides the key derivation and block cipher used by qpasswd.
//
// Key derivation uses scrypt with:
//   - a fixed, non-secret salt ("salt")
//   - N=256, r=8, p=4, producing a 32-byte key
//
// The scheme is deterministic: the same passphrase always yields the same
// key, and the IV is the first 16 bytes of that key.
//
// Encryption uses AES-256-CBC with PKCS#7 padding, driven through a
// 4096-byte scratch buffer so peak memory stays bounded.
//
// Memory safety:
//   - Use ClearBytes() to zero keys and plaintext after use
package crypto
