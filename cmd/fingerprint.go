package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/qpasswd/internal/crypto"
)

// Fingerprint prints the random art of the key a passphrase derives to.
// Comparing art is a quick way to notice a mistyped passphrase.
func Fingerprint(ctx context.Context, app *App, pass string) {
	password := GetPassphraseOrExit(pass, false)
	defer crypto.ClearBytes(password)

	art, err := app.Crypter.Fingerprint(ctx, password)
	if err != nil {
		HandleError(err)
	}
	fmt.Print(art)
}
