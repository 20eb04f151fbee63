package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestSaveGetDelete(t *testing.T) {
	keyring.MockInit()

	if HasPassword("mail") {
		t.Fatal("Fresh keyring should be empty")
	}

	if err := SavePassword("mail", "s3cr3t-Generated"); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}
	if !HasPassword("mail") {
		t.Error("Password should be stored")
	}

	got, err := GetPassword("mail")
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if got != "s3cr3t-Generated" {
		t.Errorf("Password mismatch: got %q", got)
	}

	if err := DeletePassword("mail"); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if _, err := GetPassword("mail"); !IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestSaveEmptyLabel(t *testing.T) {
	keyring.MockInit()

	if err := SavePassword("", "pw"); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("Expected ErrEmptyLabel, got %v", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	keyring.MockInit()

	if err := DeletePassword("nothing-here"); !IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}
