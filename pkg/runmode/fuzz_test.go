package runmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advanced-security/patterntest/pkg/types"
)

func fuzzPattern() types.Pattern {
	return types.Pattern{
		Name: "example token",
		Type: "example.token",
		Regex: types.Regex{
			Pattern: `EX[A-Z0-9]{10}`,
		},
	}
}

func TestFuzz_RespectsGoalsAndChunkSize(t *testing.T) {
	var progressCalls int
	summary, err := Fuzz([]types.Pattern{fuzzPattern()}, FuzzOptions{
		BinaryGoal: 30,
		ASCIIGoal:  30,
		ChunkSize:  10,
		OnProgress: func(processed, total int64) { progressCalls++ },
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), summary.BytesScanned)
	assert.Equal(t, 6, progressCalls)
}

func TestFuzz_ZeroOptionsFallBackToDefaults(t *testing.T) {
	opts := FuzzOptions{}.resolve()
	assert.Equal(t, int64(DefaultBinaryGoal), opts.BinaryGoal)
	assert.Equal(t, int64(DefaultASCIIGoal), opts.ASCIIGoal)
	assert.Equal(t, int64(DefaultChunkSize), opts.ChunkSize)
}

func TestFuzz_CompileFailureIsReportedNotPanicked(t *testing.T) {
	bad := types.Pattern{Name: "broken", Type: "broken.type", Regex: types.Regex{Pattern: "("}}
	_, err := Fuzz([]types.Pattern{bad}, FuzzOptions{BinaryGoal: 10, ASCIIGoal: 0, ChunkSize: 10})
	assert.Error(t, err)
}

func TestRandomBinaryChunk_ReturnsRequestedLength(t *testing.T) {
	buf, err := randomBinaryChunk(256)
	require.NoError(t, err)
	assert.Len(t, buf, 256)
}

func TestRandomASCIIChunk_OnlyContainsPrintableBytes(t *testing.T) {
	buf, err := randomASCIIChunk(1000)
	require.NoError(t, err)
	require.Len(t, buf, 1000)
	for _, b := range buf {
		assert.Contains(t, printableASCII, string(b))
	}
}
