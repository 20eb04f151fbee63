// Package keyring keeps generated passwords in the OS keyring.
//
// Only passwords produced by the generator are stored here, under a
// user-chosen label. Encryption passphrases and derived keys are never
// written to the keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "qpasswd"

var ErrEmptyLabel = errors.New("empty label not allowed")

// SavePassword stores a generated password under label
func SavePassword(label string, password string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if err := keyring.Set(serviceName, label, password); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// GetPassword retrieves the password stored under label
func GetPassword(label string) (string, error) {
	return keyring.Get(serviceName, label)
}

// DeletePassword removes the password stored under label
func DeletePassword(label string) error {
	return keyring.Delete(serviceName, label)
}

// HasPassword checks if a password is stored under label
func HasPassword(label string) bool {
	_, err := keyring.Get(serviceName, label)
	return err == nil
}

// IsNotFound reports whether err means nothing is stored under the label
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrNotFound)
}
