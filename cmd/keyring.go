package cmd

import (
	"fmt"

	"github.com/illarion/qpasswd/internal/keyring"
)

// KeyringGet prints the generated password stored under label
func KeyringGet(label string) {
	password, err := keyring.GetPassword(label)
	if err != nil {
		HandleError(err)
	}
	fmt.Println(password)
}

// KeyringDelete removes the password stored under label
func KeyringDelete(label string) {
	if err := keyring.DeletePassword(label); err != nil {
		if keyring.IsNotFound(err) {
			fmt.Println("No password stored in keyring")
			return
		}
		HandleError(err)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus reports whether a password is stored under label
func KeyringStatus(label string) {
	if keyring.HasPassword(label) {
		fmt.Printf("%s: stored in keyring\n", label)
	} else {
		fmt.Printf("%s: not stored\n", label)
	}
}
