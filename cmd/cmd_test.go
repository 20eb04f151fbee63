package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/illarion/qpasswd/internal/config"
	"github.com/illarion/qpasswd/internal/core"
	"github.com/illarion/qpasswd/internal/logger"
	"github.com/illarion/qpasswd/internal/passgen"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 bytes"},
		{1023, "1023 bytes"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.size); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestDecodeCiphertext(t *testing.T) {
	raw := []byte{0x00, 0x9f, 0x10, 0xee, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0xff}

	got, err := decodeCiphertext([]byte(core.EncodeText(raw) + "\n"))
	if err != nil {
		t.Fatalf("decodeCiphertext(base64) failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("base64 input decoded to %v", got)
	}

	got, err = decodeCiphertext(raw)
	if err != nil {
		t.Fatalf("decodeCiphertext(raw) failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("raw input changed to %v", got)
	}

	if _, err := decodeCiphertext([]byte("definitely not ciphertext")); !errors.Is(err, core.ErrInvalidText) {
		t.Errorf("Expected ErrInvalidText, got %v", err)
	}
}

func TestBuildSpec(t *testing.T) {
	app := &App{Config: config.DefaultConfig(), Log: logger.Nop()}

	spec, err := buildSpec(app, GenOptions{Length: 99})
	if err != nil {
		t.Fatalf("buildSpec failed: %v", err)
	}
	if spec.Length != config.DefaultLength {
		t.Errorf("Length: got %d, want %d", spec.Length, config.DefaultLength)
	}
	if len(spec.Pool()) != 62 {
		t.Errorf("Default pool size: got %d, want 62", len(spec.Pool()))
	}

	spec, err = buildSpec(app, GenOptions{Length: 8, LengthSet: true, Charsets: []passgen.CharsetType{passgen.Numbers}})
	if err != nil {
		t.Fatalf("buildSpec failed: %v", err)
	}
	if spec.Length != 8 || len(spec.Pool()) != 10 {
		t.Errorf("Unexpected spec: length %d, pool %d", spec.Length, len(spec.Pool()))
	}

	if _, err := buildSpec(app, GenOptions{Length: 1 << 20, LengthSet: true}); err == nil {
		t.Error("Expected error for oversized length")
	}
}

func TestBuildSpecExplicitLength(t *testing.T) {
	app := &App{Config: config.DefaultConfig(), Log: logger.Nop()}

	spec, err := buildSpec(app, GenOptions{Length: 0, LengthSet: true})
	if err != nil {
		t.Fatalf("buildSpec failed: %v", err)
	}
	if spec.Length != 0 {
		t.Errorf("Explicit zero length replaced by %d", spec.Length)
	}

	for _, length := range []int{-1, -16} {
		if _, err := buildSpec(app, GenOptions{Length: length, LengthSet: true}); err == nil {
			t.Errorf("Expected error for length %d", length)
		}
	}
}
