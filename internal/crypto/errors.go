package crypto

import (
	"errors"
	"fmt"
)

var (
	ErrKeyDerivation  = errors.New("key derivation failed")
	ErrInvalidKeySize = errors.New("invalid key size")
	ErrInvalidIVSize  = errors.New("invalid iv size")
	ErrInvalidPadding = errors.New("invalid padding")
	ErrTransform      = errors.New("block transform failed")
)

// ErrorKind classifies a CipherError
type ErrorKind int

const (
	KindTransform ErrorKind = iota
	KindKeySize
	KindIVSize
	KindPadding
)

func (k ErrorKind) String() string {
	switch k {
	case KindKeySize:
		return "key size"
	case KindIVSize:
		return "iv size"
	case KindPadding:
		return "padding"
	default:
		return "transform"
	}
}

// CipherError is returned for every failed encrypt or decrypt call
type CipherError struct {
	Op   string    // "encrypt" or "decrypt"
	Kind ErrorKind // What went wrong
	Err  error     // Underlying error, wraps one of the sentinels above
}

func (e *CipherError) Error() string {
	return fmt.Sprintf("cipher operation failed: %s: %v", e.Op, e.Err)
}

func (e *CipherError) Unwrap() error {
	return e.Err
}

// IsSizeError reports whether err is a key or IV size error
func IsSizeError(err error) bool {
	var ce *CipherError
	if errors.As(err, &ce) {
		return ce.Kind == KindKeySize || ce.Kind == KindIVSize
	}
	return false
}

// IsPaddingError reports whether err is a padding validation error
func IsPaddingError(err error) bool {
	return errors.Is(err, ErrInvalidPadding)
}

func newCipherError(op string, kind ErrorKind, err error) *CipherError {
	return &CipherError{Op: op, Kind: kind, Err: err}
}
