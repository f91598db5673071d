// Package accesscode generates the short tokens participants log in with.
package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// Generator produces candidate access tokens. Uniqueness is checked by the caller.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws each character uniformly from an alphabet using crypto/rand
type RandomGenerator struct {
	alphabet string
	length   int
}

// NewGenerator returns the default 4-character [A-Z0-9] generator
func NewGenerator() *RandomGenerator {
	return &RandomGenerator{alphabet: domain.AccessTokenAlphabet, length: domain.AccessTokenLength}
}

// NewGeneratorWith is used by tests and tools needing a different alphabet or length
func NewGeneratorWith(alphabet string, length int) *RandomGenerator {
	return &RandomGenerator{alphabet: alphabet, length: length}
}

func (g *RandomGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(g.alphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}
		buf[i] = g.alphabet[n.Int64()]
	}
	return string(buf), nil
}
