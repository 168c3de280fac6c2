package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advanced-security/patterntest/pkg/types"
)

func tokenPattern() types.Pattern {
	return types.Pattern{
		Name: "example token",
		Type: "example.token",
		Regex: types.Regex{
			Pattern: `EX[A-Z0-9]{10}`,
		},
	}
}

func TestCompileAndScan_FindsMatchWithInwardAdjustedOffsets(t *testing.T) {
	compiled, failures, err := Compile([]types.Pattern{tokenPattern()})
	require.NoError(t, err)
	require.Empty(t, failures)
	defer compiled.Close()

	content := []byte("prefix EXABCDEFGH12 suffix")
	matches, err := compiled.Scan(content, "fixture.txt", ScanOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "EXABCDEFGH12", m.Captured.Pattern)
	assert.Equal(t, string(content[m.StartOffset:m.EndOffset]), m.Captured.Pattern)
}

func TestCompile_IsolatesOffendingPattern(t *testing.T) {
	bad := types.Pattern{Name: "broken", Type: "broken.type", Regex: types.Regex{Pattern: "("}}
	_, failures, err := Compile([]types.Pattern{tokenPattern(), bad})
	require.Error(t, err)
	require.NotEmpty(t, failures)
	assert.Equal(t, "broken.type", failures[0].Type)
}

func TestScan_AdditionalMatchFilterSuppressesNonConformingHits(t *testing.T) {
	p := tokenPattern()
	p.Regex.AdditionalMatch = []string{"^EXABCDEFGH12$"}

	compiled, _, err := Compile([]types.Pattern{p})
	require.NoError(t, err)
	defer compiled.Close()

	matches, err := compiled.Scan([]byte("EXABCDEFGH12"), "", ScanOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	matches, err = compiled.Scan([]byte("EXZZZZZZZZZZ"), "", ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestScan_AdditionalNotMatchFilterSuppressesMatchingHits(t *testing.T) {
	p := tokenPattern()
	p.Regex.AdditionalNotMatch = []string{"EXZ{10}$"}

	compiled, _, err := Compile([]types.Pattern{p})
	require.NoError(t, err)
	defer compiled.Close()

	matches, err := compiled.Scan([]byte("EXZZZZZZZZZZ"), "", ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestScan_AdditionalNotMatchIsAnchoredNotSearched(t *testing.T) {
	p := tokenPattern()
	// "ABCD" occurs inside the captured body "EXABCDEFGH12", but only at
	// offset 2, not offset 0. An unanchored search would find it anywhere
	// and wrongly suppress the hit; anchored match() semantics require it
	// to start at offset 0, which it doesn't, so the hit must survive.
	p.Regex.AdditionalNotMatch = []string{"ABCD"}

	compiled, _, err := Compile([]types.Pattern{p})
	require.NoError(t, err)
	defer compiled.Close()

	matches, err := compiled.Scan([]byte("EXABCDEFGH12"), "", ScanOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "EXABCDEFGH12", matches[0].Captured.Pattern)
}

func TestScan_NoAdditionalMatchesBypassesFilters(t *testing.T) {
	p := tokenPattern()
	p.Regex.AdditionalMatch = []string{"never matches this"}

	compiled, _, err := Compile([]types.Pattern{p})
	require.NoError(t, err)
	defer compiled.Close()

	matches, err := compiled.Scan([]byte("EXABCDEFGH12"), "", ScanOptions{NoAdditionalMatches: true})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestScan_ByteOffsetsSurviveInvalidUTF8(t *testing.T) {
	compiled, _, err := Compile([]types.Pattern{tokenPattern()})
	require.NoError(t, err)
	defer compiled.Close()

	content := append([]byte{0xff, 0xfe}, []byte("EXABCDEFGH12")...)
	matches, err := compiled.Scan(content, "", ScanOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, string(content[matches[0].StartOffset:matches[0].EndOffset]), matches[0].Captured.Pattern)
}
