package passgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/illarion/qpasswd/internal/crypto"
)

var (
	ErrEmptyPool      = errors.New("no characters to choose from")
	ErrUnknownCharset = errors.New("unknown charset")
)

// Source picks an index in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Builder accumulates charsets and a length. Every method returns a new
// Builder, so a partially configured value can be reused safely.
type Builder struct {
	length   int16
	charsets []CharsetType
}

// NewBuilder returns an empty builder
func NewBuilder() Builder {
	return Builder{}
}

// AddCharset appends t to the selection. Adding the same charset twice
// doubles its weight in the pool.
func (b Builder) AddCharset(t CharsetType) Builder {
	charsets := make([]CharsetType, len(b.charsets), len(b.charsets)+1)
	copy(charsets, b.charsets)
	b.charsets = append(charsets, t)
	return b
}

// SetLength sets the number of characters to generate
func (b Builder) SetLength(n int16) Builder {
	b.length = n
	return b
}

// WithDefaults selects DefaultCharsets if no charset has been added
func (b Builder) WithDefaults() Builder {
	if len(b.charsets) > 0 {
		return b
	}
	for _, t := range DefaultCharsets {
		b = b.AddCharset(t)
	}
	return b
}

// Build freezes the builder into a Spec
func (b Builder) Build() Spec {
	return Spec{
		Length:   b.length,
		charsets: append([]CharsetType(nil), b.charsets...),
	}
}

// Spec is a frozen password configuration
type Spec struct {
	Length   int16
	charsets []CharsetType
}

// Charsets returns a copy of the selected charsets in insertion order
func (s Spec) Charsets() []CharsetType {
	return append([]CharsetType(nil), s.charsets...)
}

// Pool returns the concatenation of every selected charset, duplicates included
func (s Spec) Pool() []rune {
	var pool []rune
	for _, t := range s.charsets {
		pool = append(pool, Charset(t)...)
	}
	return pool
}

// Entropy returns the estimated strength of passwords built from s, in bits
func (s Spec) Entropy() float64 {
	return Entropy(len(s.Pool()), int(s.Length))
}

// Entropy returns length * log2(poolSize), or 0 if either is not positive
func Entropy(poolSize, length int) float64 {
	if poolSize <= 0 || length <= 0 {
		return 0
	}
	return float64(length) * math.Log2(float64(poolSize))
}

// Generator produces passwords for a Spec
type Generator struct {
	spec Spec
	src  Source
}

// NewGenerator creates a generator. A nil src, including a nil *rand.Rand,
// selects NewSource(). Other typed nil sources are the caller's bug.
func NewGenerator(spec Spec, src Source) (*Generator, error) {
	if r, ok := src.(*rand.Rand); ok && r == nil {
		src = nil
	}
	if src == nil {
		var err error
		src, err = NewSource()
		if err != nil {
			return nil, err
		}
	}
	return &Generator{spec: spec, src: src}, nil
}

// Spec returns the generator's configuration
func (g *Generator) Spec() Spec {
	return g.spec
}

// Generate returns a password of exactly Length characters. A Length of
// zero or less yields the empty string.
func (g *Generator) Generate() (string, error) {
	if g.spec.Length <= 0 {
		return "", nil
	}

	pool := g.spec.Pool()
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}

	var sb strings.Builder
	sb.Grow(int(g.spec.Length))
	for i := 0; i < int(g.spec.Length); i++ {
		sb.WriteRune(pool[g.src.IntN(len(pool))])
	}
	return sb.String(), nil
}

// NewSource returns a ChaCha8-backed source seeded from crypto/rand
func NewSource() (*rand.Rand, error) {
	seed, err := crypto.GenerateRandom(32)
	if err != nil {
		return nil, fmt.Errorf("failed to seed generator: %w", err)
	}
	defer crypto.ClearBytes(seed)

	var s [32]byte
	copy(s[:], seed)
	return rand.New(rand.NewChaCha8(s)), nil
}
