package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/illarion/qpasswd/internal/crypto"
)

const EnvPassphrase = "QPASSWD_PASSPHRASE"

var (
	ErrPassphraseMismatch = errors.New("passphrases do not match")
	ErrNoPassphraseInput  = errors.New("no passphrase input available")
)

// openTTY opens the controlling terminal; tests replace it
var openTTY = func() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// Line reader for piped stdin, shared so a second read continues where the
// first one stopped.
var (
	stdinMu     sync.Mutex
	stdinFile   *os.File
	stdinReader *bufio.Reader
)

// ReadPassword reads a passphrase without echoing.
// When stdin is not a terminal the controlling terminal is used, so data
// can still be piped in. Without one, a line is read from stdin.
// The prompt goes to stderr so stdout stays clean for command output.
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		return readTerminal(fd)
	}

	if tty, err := openTTY(); err == nil {
		defer tty.Close()
		if fd := int(tty.Fd()); term.IsTerminal(fd) {
			return readTerminal(fd)
		}
	}

	return readLine()
}

func readTerminal(fd int) ([]byte, error) {
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // New line after passphrase
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return password, nil
}

func readLine() ([]byte, error) {
	stdinMu.Lock()
	defer stdinMu.Unlock()

	if stdinReader == nil || stdinFile != os.Stdin {
		stdinFile = os.Stdin
		stdinReader = bufio.NewReader(os.Stdin)
	}

	line, err := stdinReader.ReadString('\n')
	fmt.Fprintln(os.Stderr)
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: stdin is exhausted and there is no terminal", ErrNoPassphraseInput)
		}
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// ReadPasswordConfirm reads a passphrase twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, ErrPassphraseMismatch
	}

	// Return a copy of the passphrase
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv reads the passphrase from QPASSWD_PASSPHRASE
func GetPasswordFromEnv() []byte {
	password := os.Getenv(EnvPassphrase)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, password)
	return result
}
