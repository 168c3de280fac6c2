package runmode

import (
	"log/slog"
	"math/rand/v2"

	"github.com/advanced-security/patterntest/pkg/matcher"
	"github.com/advanced-security/patterntest/pkg/types"
)

// Default fuzz goals (spec.md §4.7 "Random fuzz"): 1 GB (10^9 bytes) of
// random binary followed by 1 GB of random printable ASCII, fed through
// the matcher in 100 MB (10^8 byte) chunks.
const (
	DefaultBinaryGoal = 1_000_000_000
	DefaultASCIIGoal  = 1_000_000_000
	DefaultChunkSize  = 100_000_000
)

// printableASCII mirrors Python's string.printable: digits, letters,
// punctuation and whitespace, the set choices() drew from.
const printableASCII = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~ \t\n\r\x0b\x0c"

// FuzzOptions configures the random-input fuzz run. Zero values select
// the defaults.
type FuzzOptions struct {
	BinaryGoal          int64
	ASCIIGoal           int64
	ChunkSize           int64
	NoAdditionalMatches bool
	// OnProgress, if set, is called after each chunk with the
	// cumulative bytes processed, for a caller-rendered progress bar.
	OnProgress func(processed, total int64)
}

func (o FuzzOptions) resolve() FuzzOptions {
	if o.BinaryGoal <= 0 {
		o.BinaryGoal = DefaultBinaryGoal
	}
	if o.ASCIIGoal <= 0 {
		o.ASCIIGoal = DefaultASCIIGoal
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// Fuzz compiles the union of patterns and feeds random binary data,
// then random printable-ASCII data, through the matcher in fixed-size
// chunks, reporting per-pattern hit counts (spec.md §4.7 "Random
// fuzz"). Its purpose is to surface patterns prone to matching
// arbitrary input, not to find real secrets, so matches are never
// reconciled against expectations — only counted.
func Fuzz(patterns []types.Pattern, opts FuzzOptions) (*Summary, error) {
	opts = opts.resolve()

	compiled, failures, err := matcher.Compile(patterns)
	for _, f := range failures {
		slog.Error("compile failure", "type", f.Type, "err", f.Err)
	}
	if err != nil {
		return nil, err
	}
	defer compiled.Close()

	summary := newSummary()
	total := opts.BinaryGoal + opts.ASCIIGoal

	if err := fuzzLoop(compiled, summary, opts.BinaryGoal, opts.ChunkSize, total, opts, randomBinaryChunk); err != nil {
		return nil, err
	}
	if err := fuzzLoop(compiled, summary, opts.ASCIIGoal, opts.ChunkSize, total, opts, randomASCIIChunk); err != nil {
		return nil, err
	}

	return summary, nil
}

func fuzzLoop(compiled *matcher.Compiled, summary *Summary, goal, chunkSize, total int64, opts FuzzOptions, gen func(int64) ([]byte, error)) error {
	var done int64
	for done < goal {
		n := chunkSize
		if remaining := goal - done; remaining < n {
			n = remaining
		}

		chunk, err := gen(n)
		if err != nil {
			return err
		}

		matches, err := compiled.Scan(chunk, "", matcher.ScanOptions{NoAdditionalMatches: opts.NoAdditionalMatches})
		if err != nil {
			return err
		}
		for _, m := range matches {
			summary.record(compiled.PatternAt(m.PatternIndex).Name, m, false)
		}

		done += n
		summary.BytesScanned += n
		if opts.OnProgress != nil {
			opts.OnProgress(summary.BytesScanned, total)
		}
	}
	return nil
}

// These generators use math/rand/v2, not crypto/rand: the fuzz goal is
// statistical coverage of arbitrary input at a couple of gigabytes per
// run, not unpredictability, matching the Python tool's plain
// random.randbytes/choices (explicitly `# nosec`/`# noqa: DUO102` in
// the original, for the same reason).
func randomBinaryChunk(n int64) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(rand.IntN(256))
	}
	return buf, nil
}

func randomASCIIChunk(n int64) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = printableASCII[rand.IntN(len(printableASCII))]
	}
	return buf, nil
}
