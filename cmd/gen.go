package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/illarion/qpasswd/internal/keyring"
	"github.com/illarion/qpasswd/internal/passgen"
)

// GenOptions are the gen command's flags
type GenOptions struct {
	Length      int
	LengthSet   bool // false means the configured default
	Charsets    []passgen.CharsetType
	Count       int
	Save        string // Keyring label (--save)
	ShowEntropy bool
}

// Gen prints freshly generated passwords
func Gen(app *App, opts GenOptions) {
	spec, err := buildSpec(app, opts)
	if err != nil {
		HandleError(err)
	}

	if opts.Save != "" && opts.Count != 1 {
		HandleError(errors.New("--save stores a single password, drop -n"))
	}

	gen, err := passgen.NewGenerator(spec, nil)
	if err != nil {
		HandleError(err)
	}

	for i := 0; i < opts.Count; i++ {
		password, err := gen.Generate()
		if err != nil {
			HandleError(err)
		}

		if opts.Save != "" {
			if err := keyring.SavePassword(opts.Save, password); err != nil {
				HandleError(err)
			}
			fmt.Fprintf(os.Stderr, "Saved to keyring as %s\n", opts.Save)
		}
		fmt.Println(password)
	}

	if opts.ShowEntropy {
		fmt.Fprintf(os.Stderr, "Entropy: %.1f bits (%d characters from a pool of %d)\n",
			spec.Entropy(), spec.Length, len(spec.Pool()))
	}
	app.Log.Debug().Int("length", int(spec.Length)).Int("pool", len(spec.Pool())).Int("count", opts.Count).Msg("generated")
}

func buildSpec(app *App, opts GenOptions) (passgen.Spec, error) {
	length := opts.Length
	if !opts.LengthSet {
		length = app.Config.Generator.Length
	}
	if length < 0 {
		return passgen.Spec{}, fmt.Errorf("length must not be negative (got: %d)", length)
	}
	if length > math.MaxInt16 {
		return passgen.Spec{}, fmt.Errorf("length must be at most %d (got: %d)", math.MaxInt16, length)
	}

	charsets := opts.Charsets
	if len(charsets) == 0 {
		var err error
		charsets, err = app.Config.Charsets()
		if err != nil {
			return passgen.Spec{}, err
		}
	}

	b := passgen.NewBuilder().SetLength(int16(length))
	for _, c := range charsets {
		b = b.AddCharset(c)
	}
	return b.WithDefaults().Build(), nil
}
