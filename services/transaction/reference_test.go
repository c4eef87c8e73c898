package transaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference(PrefixDeposit)

	parts := strings.SplitN(ref, "-", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, PrefixDeposit, parts[0])
	assert.Len(t, parts[1], referenceSuffixLength)

	for _, r := range parts[1] {
		assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected character %q in %s", r, ref)
	}
}

func TestGenerateReferenceVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateReference(PrefixTransfer)] = true
	}
	// 36^8 suffixes; 100 draws colliding would indicate a broken generator
	assert.Greater(t, len(seen), 90)
}

func TestVASPrefix(t *testing.T) {
	assert.Equal(t, PrefixAirtime, vasPrefix(TypeAirtime))
	assert.Equal(t, PrefixData, vasPrefix(TypeData))
}
