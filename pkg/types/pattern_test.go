package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOffsets_EndOfDataSentinel(t *testing.T) {
	exp, err := ResolveOffsets("secret.txt", 5, EndOfData, 40)
	require.NoError(t, err)
	assert.Equal(t, 5, exp.StartOffset)
	assert.Equal(t, 40, exp.EndOffset)
}

func TestResolveOffsets_StartSentinelResolvesToContentLen(t *testing.T) {
	exp, err := ResolveOffsets("secret.txt", EndOfData, EndOfData, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, exp.StartOffset)
	assert.Equal(t, 12, exp.EndOffset)
}

func TestResolveOffsets_RejectsInvalidStart(t *testing.T) {
	_, err := ResolveOffsets("secret.txt", -2, 10, 40)
	assert.Error(t, err)
}

func TestResolveOffsets_RejectsZeroEnd(t *testing.T) {
	_, err := ResolveOffsets("secret.txt", 0, 0, 40)
	assert.Error(t, err)
}

func TestResolveOffsets_RejectsNegativeEndBelowSentinel(t *testing.T) {
	_, err := ResolveOffsets("secret.txt", 0, -2, 40)
	assert.Error(t, err)
}

func TestPatternSet_Empty(t *testing.T) {
	assert.True(t, PatternSet{}.Empty())
	assert.False(t, PatternSet{Patterns: []Pattern{{Name: "x"}}}.Empty())
}
