package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/illarion/qpasswd/internal/crypto"
	"github.com/illarion/qpasswd/internal/fingerprint"
)

var (
	ErrDecryptFailed     = errors.New("decryption failed, check passphrase or input integrity")
	ErrPassphraseMissing = errors.New("passphrase required")
)

type transformFunc func(data, key, iv []byte) ([]byte, error)

type result struct {
	data []byte
	err  error
}

// Crypter turns passphrases into keys and runs the cipher engine
type Crypter struct {
	kdf *crypto.KDF
	log zerolog.Logger
}

// NewCrypter creates a Crypter with the default key derivation parameters
func NewCrypter(log zerolog.Logger) *Crypter {
	return NewCrypterWithKDF(crypto.NewKDF(), log)
}

// NewCrypterWithKDF creates a Crypter with a custom KDF
func NewCrypterWithKDF(kdf *crypto.KDF, log zerolog.Logger) *Crypter {
	return &Crypter{
		kdf: kdf,
		log: log.With().Str("component", "crypter").Logger(),
	}
}

// Seal encrypts plaintext under passphrase.
// If ctx ends first, Seal returns ctx.Err() while the worker finishes in
// the background; plaintext must not be modified afterwards.
func (c *Crypter) Seal(ctx context.Context, passphrase, plaintext []byte) ([]byte, error) {
	return c.run(ctx, "encrypt", passphrase, plaintext, crypto.Encrypt)
}

// Open decrypts ciphertext under passphrase. A wrong passphrase or damaged
// ciphertext is reported as ErrDecryptFailed wrapping crypto.ErrInvalidPadding.
func (c *Crypter) Open(ctx context.Context, passphrase, ciphertext []byte) ([]byte, error) {
	return c.run(ctx, "decrypt", passphrase, ciphertext, crypto.Decrypt)
}

// Fingerprint renders the key derived from passphrase as random art
func (c *Crypter) Fingerprint(ctx context.Context, passphrase []byte) (string, error) {
	art, err := c.run(ctx, "fingerprint", passphrase, nil, func(_, key, _ []byte) ([]byte, error) {
		return []byte(fingerprint.Render(key, fingerprint.DefaultOptions)), nil
	})
	if err != nil {
		return "", err
	}
	return string(art), nil
}

func (c *Crypter) run(ctx context.Context, op string, passphrase, data []byte, fn transformFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(passphrase) == 0 {
		return nil, ErrPassphraseMissing
	}

	// The caller may clear its passphrase as soon as we return
	pass := append([]byte(nil), passphrase...)

	done := make(chan result, 1)
	go func() {
		defer crypto.ClearBytes(pass)
		out, err := c.transform(op, pass, data, fn)
		done <- result{data: out, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		c.log.Debug().Str("op", op).Msg("cancelled, discarding result")
		go func() {
			r := <-done
			crypto.ClearBytes(r.data)
		}()
		return nil, ctx.Err()
	}
}

func (c *Crypter) transform(op string, passphrase, data []byte, fn transformFunc) ([]byte, error) {
	start := time.Now()

	key, err := c.kdf.DeriveKey(passphrase)
	if err != nil {
		c.log.Error().Str("op", op).Err(err).Msg("key derivation failed")
		return nil, err
	}
	defer crypto.ClearBytes(key)

	iv, err := crypto.DeriveIV(key)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(iv)

	derived := time.Since(start)

	out, err := fn(data, key, iv)
	if err != nil {
		if crypto.IsPaddingError(err) {
			return nil, fmt.Errorf("%w: %w", ErrDecryptFailed, err)
		}
		return nil, err
	}

	c.log.Debug().
		Str("op", op).
		Int("in_bytes", len(data)).
		Int("out_bytes", len(out)).
		Dur("kdf", derived).
		Dur("total", time.Since(start)).
		Msg("done")
	return out, nil
}
