package passgen

import (
	"errors"
	"testing"
)

func TestCharsetContents(t *testing.T) {
	tests := []struct {
		charset CharsetType
		size    int
		first   rune
		last    rune
	}{
		{Lowercase, 26, 'a', 'z'},
		{Uppercase, 26, 'A', 'Z'},
		{Symbols, 11, '_', '%'},
		{Numbers, 10, '0', '9'},
		{Special, 32, '!', '~'},
	}

	for _, tt := range tests {
		t.Run(tt.charset.String(), func(t *testing.T) {
			chars := Charset(tt.charset)
			if len(chars) != tt.size {
				t.Fatalf("Size mismatch: got %d, want %d", len(chars), tt.size)
			}
			if chars[0] != tt.first || chars[len(chars)-1] != tt.last {
				t.Errorf("Bounds mismatch: got %q..%q, want %q..%q", chars[0], chars[len(chars)-1], tt.first, tt.last)
			}
		})
	}
}

func TestCharsetReturnsFreshSlice(t *testing.T) {
	chars := Charset(Numbers)
	chars[0] = 'x'

	if Charset(Numbers)[0] != '0' {
		t.Error("Modifying a returned charset should not affect the registry")
	}
}

func TestSpecialIsASCIIPunctuation(t *testing.T) {
	for _, r := range Charset(Special) {
		if r < '!' || r > '~' {
			t.Errorf("%q is not printable ASCII", r)
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			t.Errorf("%q is alphanumeric", r)
		}
	}
}

func TestParseCharset(t *testing.T) {
	for _, c := range AllCharsets {
		got, err := ParseCharset(c.String())
		if err != nil {
			t.Fatalf("ParseCharset(%q) failed: %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCharset(%q) = %v", c, got)
		}
	}

	if got, err := ParseCharset(" Digits "); err != nil || got != Numbers {
		t.Errorf("ParseCharset(\" Digits \") = %v, %v", got, err)
	}

	if _, err := ParseCharset("emoji"); !errors.Is(err, ErrUnknownCharset) {
		t.Errorf("Expected ErrUnknownCharset, got %v", err)
	}
}
