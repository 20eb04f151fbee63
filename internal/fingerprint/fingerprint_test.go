package fingerprint

import (
	"strings"
	"testing"
)

func TestRenderShape(t *testing.T) {
	art := Render([]byte("0123456789abcdef0123456789abcdef"), DefaultOptions)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")

	if len(lines) != Height+2 {
		t.Fatalf("Line count: got %d, want %d", len(lines), Height+2)
	}
	for i, line := range lines {
		if len(line) != Width+2 {
			t.Errorf("Line %d width: got %d, want %d (%q)", i, len(line), Width+2, line)
		}
	}
	if !strings.Contains(lines[0], "[scrypt]") {
		t.Errorf("Top border missing label: %q", lines[0])
	}
	if !strings.Contains(lines[len(lines)-1], "[derived key]") {
		t.Errorf("Bottom border missing label: %q", lines[len(lines)-1])
	}
	if strings.Count(art, "E") != 1 {
		t.Errorf("Expected exactly one end marker:\n%s", art)
	}
}

func TestRenderDeterministic(t *testing.T) {
	key := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04}
	if Render(key, DefaultOptions) != Render(key, DefaultOptions) {
		t.Error("Same input should render identically")
	}
	if Render(key, DefaultOptions) == Render(append(key, 0xff), DefaultOptions) {
		t.Error("Different input should render differently")
	}
}

func TestWalkKnownMoves(t *testing.T) {
	// 0xff moves down-right four times from the centre
	f := Walk([]byte{0xff})
	if f.end != [2]int{Width/2 + 4, Height/2 + 4} {
		t.Errorf("End position: got %v", f.end)
	}

	// 0x00 moves up-left, clamped at the corner
	f = Walk([]byte{0x00, 0x00, 0x00})
	if f.end != [2]int{0, 0} {
		t.Errorf("End position: got %v", f.end)
	}
	if f.counts[0][0] < 4 {
		t.Errorf("Corner should be visited repeatedly, got %d", f.counts[0][0])
	}
}

func TestEmptyInput(t *testing.T) {
	f := Walk(nil)
	if f.start != f.end {
		t.Error("Empty walk should end where it started")
	}
	art := f.Draw(Options{})
	if !strings.Contains(art, "E") {
		t.Error("End marker should overwrite the start marker")
	}
}
