package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/qpasswd/internal/core"
	"github.com/illarion/qpasswd/internal/crypto"
)

// EncryptOptions are the encrypt command's flags
type EncryptOptions struct {
	Source string // Literal plaintext (-s)
	InPath string // Plaintext file (--in)
	Pass   string // Passphrase (-p)
	Save   string // Store label (--save)
	Art    bool   // Print the key fingerprint (--art)
}

// Encrypt seals a payload and prints it as base64, or keeps it in the store
func Encrypt(ctx context.Context, app *App, opts EncryptOptions) {
	plaintext, err := readPayload(opts.Source, opts.InPath)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(plaintext)

	password := GetPassphraseOrExit(opts.Pass, true)
	defer crypto.ClearBytes(password)

	ciphertext, err := app.Crypter.Seal(ctx, password, plaintext)
	if err != nil {
		HandleError(err)
	}

	if opts.Art {
		art, err := app.Crypter.Fingerprint(ctx, password)
		if err != nil {
			HandleError(err)
		}
		fmt.Fprint(os.Stderr, art)
	}

	if opts.Save == "" {
		fmt.Println(core.EncodeText(ciphertext))
		return
	}

	store, err := app.OpenStore()
	if err != nil {
		HandleError(err)
	}
	defer store.Close()

	entry, err := store.PutSealed(opts.Save, ciphertext, int64(len(plaintext)))
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Saved %s (%s) to %s\n", entry.Label, formatSize(entry.Size), store.Path())
}
