package passgen

import (
	"fmt"
	"strings"
)

// CharsetType identifies one of the fixed character sets
type CharsetType int

const (
	Lowercase CharsetType = iota
	Uppercase
	Symbols
	Numbers
	Special
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" // Full alphabet; older tables dropped letters
	symbolChars    = "_*&|!?@$#=%"
	numberChars    = "0123456789"
	specialChars   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// AllCharsets lists every charset in declaration order
var AllCharsets = []CharsetType{Lowercase, Uppercase, Symbols, Numbers, Special}

// DefaultCharsets is what callers fall back to when nothing was selected
var DefaultCharsets = []CharsetType{Lowercase, Uppercase, Numbers}

// Charset returns the characters of t in a fresh slice
func Charset(t CharsetType) []rune {
	switch t {
	case Lowercase:
		return []rune(lowercaseChars)
	case Uppercase:
		return []rune(uppercaseChars)
	case Symbols:
		return []rune(symbolChars)
	case Numbers:
		return []rune(numberChars)
	case Special:
		return []rune(specialChars)
	default:
		return nil
	}
}

func (t CharsetType) String() string {
	switch t {
	case Lowercase:
		return "lowercase"
	case Uppercase:
		return "uppercase"
	case Symbols:
		return "symbols"
	case Numbers:
		return "numbers"
	case Special:
		return "special"
	default:
		return fmt.Sprintf("CharsetType(%d)", int(t))
	}
}

// ParseCharset maps a name (as used in config files and flags) to a CharsetType
func ParseCharset(name string) (CharsetType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowercase", "lower":
		return Lowercase, nil
	case "uppercase", "upper":
		return Uppercase, nil
	case "symbols", "symbol":
		return Symbols, nil
	case "numbers", "number", "digits":
		return Numbers, nil
	case "special":
		return Special, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
}
