package crypto

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	KeySize = 32 // AES-256 key size
	IVSize  = 16 // AES block size, IV is carved from the key

	DefaultN = 256 // scrypt CPU/memory cost
	DefaultR = 8   // scrypt block size
	DefaultP = 4   // scrypt parallelization
)

// DefaultSalt is the fixed salt every derivation uses. It is not secret and
// not per-invocation, so identical passphrases always produce identical keys.
var DefaultSalt = []byte("salt")

// KDF handles key derivation from passphrases
type KDF struct {
	Salt []byte
	N    int
	R    int
	P    int
}

// NewKDF creates a KDF with the fixed salt and default cost parameters
func NewKDF() *KDF {
	return &KDF{
		Salt: append([]byte(nil), DefaultSalt...),
		N:    DefaultN,
		R:    DefaultR,
		P:    DefaultP,
	}
}

// DeriveKey derives a KeySize-byte key from a passphrase.
// The passphrase is neither retained nor logged.
func (k *KDF) DeriveKey(passphrase []byte) ([]byte, error) {
	key, err := scrypt.Key(passphrase, k.Salt, k.N, k.R, k.P, KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	return key, nil
}

// DeriveKeyInto derives the key directly into out
func (k *KDF) DeriveKeyInto(passphrase []byte, out *[KeySize]byte) error {
	key, err := k.DeriveKey(passphrase)
	if err != nil {
		return err
	}
	copy(out[:], key)
	ClearBytes(key)
	return nil
}

// DeriveIV returns a copy of the first IVSize bytes of key
func DeriveIV(key []byte) ([]byte, error) {
	if len(key) < IVSize {
		return nil, &CipherError{
			Op:   "derive iv",
			Kind: KindKeySize,
			Err:  fmt.Errorf("%w: need at least %d bytes, got %d", ErrInvalidKeySize, IVSize, len(key)),
		}
	}
	iv := make([]byte, IVSize)
	copy(iv, key[:IVSize])
	return iv, nil
}
