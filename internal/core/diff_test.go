package core

import (
	"strings"
	"testing"
)

func TestIsText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"plain ASCII", []byte("Hello, World!\nThis is a test."), true},
		{"UTF-8", []byte("Hello 世界! Ñoño café"), true},
		{"empty", []byte(""), true},
		{"whitespace", []byte("\n\n  \t  \n"), true},
		{"null byte", []byte("abc\x00def"), false},
		{"invalid UTF-8", []byte{0xff, 0xfe, 0xfd}, false},
		{"control heavy", []byte("\x01\x02\x03\x04abc"), false},
		{"long text", []byte(strings.Repeat("line of text\n", 1000)), true},
		{"rune across sample edge", []byte(strings.Repeat("a", BinarySampleSize-1) + "世界"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsText(tt.content); got != tt.want {
				t.Errorf("IsText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameContent(t *testing.T) {
	if !SameContent([]byte("same"), []byte("same")) {
		t.Error("Identical content should match")
	}
	if SameContent([]byte("same"), []byte("diff")) {
		t.Error("Different content should not match")
	}
	if !SameContent(nil, []byte{}) {
		t.Error("nil and empty should match")
	}
}

func TestUnifiedDiff(t *testing.T) {
	stored := []byte("user=admin\npassword=old\nhost=db\n")
	local := []byte("user=admin\npassword=new\nhost=db\n")

	diff := UnifiedDiff("db.env", stored, local)
	if !strings.HasPrefix(diff, "--- store/db.env\n+++ local/db.env\n") {
		t.Errorf("Missing headers:\n%s", diff)
	}
	if !strings.Contains(diff, "-password=old") || !strings.Contains(diff, "+password=new") {
		t.Errorf("Diff missing changed lines:\n%s", diff)
	}

	if got := UnifiedDiff("db.env", stored, stored); got != "" {
		t.Errorf("Identical content should produce no diff, got:\n%s", got)
	}

	if got := UnifiedDiff("blob", []byte{0, 1, 2}, []byte{0, 1, 3}); !strings.Contains(got, "Binary content blob differs") {
		t.Errorf("Expected binary notice, got %q", got)
	}
}
