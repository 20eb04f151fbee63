// Package fingerprint renders key bytes as "drunken bishop" random art,
// the same visualisation OpenSSH prints for host keys. Two keys that look
// alike to the eye are very unlikely to have similar art.
package fingerprint

import (
	"strings"
)

const (
	Width  = 17
	Height = 9

	symbols = " .o+=*BOX@%&#/^"
	startCh = 'S'
	endCh   = 'E'
)

// Options controls the frame labels
type Options struct {
	TopText    string
	BottomText string
}

// DefaultOptions labels the art as an scrypt-derived key
var DefaultOptions = Options{
	TopText:    "scrypt",
	BottomText: "derived key",
}

// Field is the grid of visit counts left behind by the bishop
type Field struct {
	counts [Height][Width]int
	start  [2]int
	end    [2]int
}

// Walk moves the bishop over the field, two bits per step,
// least significant pair first.
func Walk(data []byte) *Field {
	f := &Field{}
	x, y := Width/2, Height/2
	f.start = [2]int{x, y}

	for _, b := range data {
		for i := 0; i < 4; i++ {
			if b&0x1 != 0 {
				x++
			} else {
				x--
			}
			if b&0x2 != 0 {
				y++
			} else {
				y--
			}
			x = clamp(x, 0, Width-1)
			y = clamp(y, 0, Height-1)
			f.counts[y][x]++
			b >>= 2
		}
	}

	f.end = [2]int{x, y}
	return f
}

// Draw renders the field framed with the given labels
func (f *Field) Draw(opts Options) string {
	var sb strings.Builder
	sb.WriteString(border(opts.TopText))
	sb.WriteByte('\n')

	for y := 0; y < Height; y++ {
		sb.WriteByte('|')
		for x := 0; x < Width; x++ {
			sb.WriteByte(f.symbol(x, y))
		}
		sb.WriteString("|\n")
	}

	sb.WriteString(border(opts.BottomText))
	sb.WriteByte('\n')
	return sb.String()
}

// Render is Walk followed by Draw
func Render(data []byte, opts Options) string {
	return Walk(data).Draw(opts)
}

func (f *Field) symbol(x, y int) byte {
	switch {
	case x == f.end[0] && y == f.end[1]:
		return endCh
	case x == f.start[0] && y == f.start[1]:
		return startCh
	}
	c := f.counts[y][x]
	if c >= len(symbols) {
		c = len(symbols) - 1
	}
	return symbols[c]
}

func border(label string) string {
	if label == "" {
		return "+" + strings.Repeat("-", Width) + "+"
	}
	label = "[" + label + "]"
	if len(label) > Width {
		label = label[:Width]
	}
	left := (Width - len(label)) / 2
	right := Width - len(label) - left
	return "+" + strings.Repeat("-", left) + label + strings.Repeat("-", right) + "+"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
