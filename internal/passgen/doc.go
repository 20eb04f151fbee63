// Package passgen generates random passwords from selectable character sets.
//
// A Spec is assembled with a Builder: each AddCharset call appends the
// charset's characters to the pool, so a charset added twice is sampled
// twice as often. Generate draws Length characters uniformly, with
// replacement, from that pool.
//
// The random source is injected. Tests use a seeded math/rand/v2 source;
// the default is a ChaCha8 generator seeded from crypto/rand.
package passgen
