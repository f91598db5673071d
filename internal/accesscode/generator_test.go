package accesscode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

func TestGenerate_ShapeAndAlphabet(t *testing.T) {
	g := NewGenerator()
	for range 200 {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.Len(t, code, domain.AccessTokenLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(domain.AccessTokenAlphabet, c), "unexpected character %q", c)
		}
	}
}

func TestGenerate_Varies(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for range 50 {
		code, err := g.Generate()
		require.NoError(t, err)
		seen[code] = true
	}
	// 36^4 possibilities; 50 draws colliding down to a handful would mean a broken source
	assert.Greater(t, len(seen), 40)
}

func TestNewGeneratorWith_SingleSymbol(t *testing.T) {
	code, err := NewGeneratorWith("Z", 6).Generate()
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZZ", code)
}
