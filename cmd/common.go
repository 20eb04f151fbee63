package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/illarion/qpasswd/internal/config"
	"github.com/illarion/qpasswd/internal/core"
	"github.com/illarion/qpasswd/internal/crypto"
	"github.com/illarion/qpasswd/internal/git"
	"github.com/illarion/qpasswd/internal/keyring"
	"github.com/illarion/qpasswd/internal/logger"
	"github.com/illarion/qpasswd/internal/passgen"
	"github.com/illarion/qpasswd/internal/security"
	"github.com/illarion/qpasswd/internal/storage"
)

// App carries what every command needs: settings, a logger and the crypter
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Crypter *core.Crypter
}

// Setup loads the configuration and builds the logger.
// debug forces the debug level regardless of the config file.
func Setup(debug bool) (*App, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = zerolog.LevelDebugValue
	}

	log := logger.New(cfg.Log)
	return &App{
		Config:  cfg,
		Log:     log,
		Crypter: core.NewCrypter(log),
	}, nil
}

// SetupOrExit is like Setup but exits on error
func SetupOrExit(debug bool) *App {
	app, err := Setup(debug)
	if err != nil {
		HandleError(err)
	}
	return app
}

// OpenStore opens the ciphertext store named in the configuration
func (a *App) OpenStore() (*core.Store, error) {
	return core.OpenStore(a.Config.StorePath, a.Crypter, a.Log)
}

// GetPassphrase returns the passphrase from the -p flag, then
// QPASSWD_PASSPHRASE, then a prompt. With confirm set the prompt asks twice.
// The caller is responsible for calling crypto.ClearBytes on the result.
func GetPassphrase(flagValue string, confirm bool) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}

	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if confirm {
		return core.ReadPasswordConfirm()
	}

	password, err := core.ReadPassword("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	return password, nil
}

// GetPassphraseOrExit is like GetPassphrase but exits on error
func GetPassphraseOrExit(flagValue string, confirm bool) []byte {
	password, err := GetPassphrase(flagValue, confirm)
	if err != nil {
		HandleError(err)
	}
	return password
}

// readPayload returns the bytes named by exactly one of source (literal
// text) or inPath (a file under the working directory). With neither,
// piped stdin is read.
func readPayload(source, inPath string) ([]byte, error) {
	switch {
	case source != "" && inPath != "":
		return nil, errors.New("use either -s or --in, not both")
	case source != "":
		return []byte(source), nil
	case inPath != "":
		wd, err := security.Open(".")
		if err != nil {
			return nil, err
		}
		defer wd.Close()
		return wd.ReadFile(inPath)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		return io.ReadAll(os.Stdin)
	default:
		return nil, errors.New("no input: use -s <text>, --in <file> or pipe data on stdin")
	}
}

// writeOutput writes plaintext to outPath inside the working directory, or
// to stdout when outPath is empty.
func writeOutput(ctx context.Context, outPath string, data []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	wd, err := security.Open(".")
	if err != nil {
		return err
	}
	defer wd.Close()

	rel, err := wd.Normalize(outPath)
	if err != nil {
		return err
	}
	if warning := git.CheckExposure(ctx, wd.Path(), rel).Warning(); warning != "" {
		fmt.Fprintln(os.Stderr, warning)
	}
	if wd.Exists(rel) {
		fmt.Fprintf(os.Stderr, "Overwriting %s\n", rel)
	}

	return wd.WriteFile(rel, data)
}

// HandleError prints a friendly message for known errors and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrDecryptFailed):
		fmt.Fprintf(os.Stderr, "Error: decryption failed\n")
		fmt.Fprintf(os.Stderr, "Check the passphrase and that the input was produced by 'qpasswd encrypt'\n")
	case errors.Is(err, core.ErrPassphraseMismatch):
		fmt.Fprintf(os.Stderr, "Error: passphrases do not match\n")
	case errors.Is(err, core.ErrPassphraseMissing):
		fmt.Fprintf(os.Stderr, "Error: empty passphrase\n")
		fmt.Fprintf(os.Stderr, "Use -p, set %s, or type one at the prompt\n", core.EnvPassphrase)
	case errors.Is(err, core.ErrNoPassphraseInput):
		fmt.Fprintf(os.Stderr, "Error: no terminal to read the passphrase from\n")
		fmt.Fprintf(os.Stderr, "Use -p or set %s when stdin carries the data\n", core.EnvPassphrase)
	case errors.Is(err, core.ErrInvalidText):
		fmt.Fprintf(os.Stderr, "Error: input is not base64 ciphertext\n")
	case errors.Is(err, crypto.ErrKeyDerivation):
		fmt.Fprintf(os.Stderr, "Error: key derivation failed: %s\n", err)
	case crypto.IsSizeError(err):
		fmt.Fprintf(os.Stderr, "Error: invalid key material: %s\n", err)
	case errors.Is(err, passgen.ErrEmptyPool):
		fmt.Fprintf(os.Stderr, "Error: no characters to choose from\n")
		fmt.Fprintf(os.Stderr, "Enable at least one of --lower --upper --symbols --numbers --special\n")
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'qpasswd store ls' to see stored labels\n")
	case keyring.IsNotFound(err):
		fmt.Fprintf(os.Stderr, "Error: no password stored in keyring under that label\n")
	case errors.Is(err, security.ErrPathEscapes), errors.Is(err, security.ErrAbsolutePath):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Files must be inside the current directory\n")
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "Interrupted\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
