package cmd

import (
	"context"
	"errors"

	"github.com/illarion/qpasswd/internal/core"
	"github.com/illarion/qpasswd/internal/crypto"
)

// DecryptOptions are the decrypt command's flags
type DecryptOptions struct {
	Source  string // Base64 ciphertext (-s)
	InPath  string // Ciphertext file, base64 or raw (--in)
	From    string // Store label (--from)
	OutPath string // Plaintext destination (--out)
	Pass    string // Passphrase (-p)
}

// Decrypt opens a ciphertext given as text, a file or a store label
func Decrypt(ctx context.Context, app *App, opts DecryptOptions) {
	ciphertext, err := loadCiphertext(app, opts)
	if err != nil {
		HandleError(err)
	}

	password := GetPassphraseOrExit(opts.Pass, false)
	defer crypto.ClearBytes(password)

	plaintext, err := app.Crypter.Open(ctx, password, ciphertext)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(plaintext)

	if err := writeOutput(ctx, opts.OutPath, plaintext); err != nil {
		HandleError(err)
	}
}

func loadCiphertext(app *App, opts DecryptOptions) ([]byte, error) {
	if opts.From != "" {
		if opts.Source != "" || opts.InPath != "" {
			return nil, errors.New("--from cannot be combined with -s or --in")
		}

		store, err := app.OpenStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Sealed(opts.From)
	}

	data, err := readPayload(opts.Source, opts.InPath)
	if err != nil {
		return nil, err
	}
	return decodeCiphertext(data)
}

// decodeCiphertext accepts base64 text as printed by encrypt, or raw
// block-aligned ciphertext.
func decodeCiphertext(data []byte) ([]byte, error) {
	decoded, err := core.DecodeText(string(data))
	if err == nil {
		return decoded, nil
	}
	if len(data) > 0 && len(data)%crypto.BlockSize == 0 && !core.IsText(data) {
		return data, nil
	}
	return nil, err
}
