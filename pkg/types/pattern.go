package types

import "fmt"

// EndOfData is the sentinel offset meaning "end of the scanned buffer",
// used by both Expectation and raw config offsets before resolution.
const EndOfData = -1

// Expectation is a declared (basename, start_offset, end_offset) triple
// that the engine must reproduce exactly for a pattern to be considered
// passing. Offsets are stored raw (EndOfData may be present) until
// reconciliation: pkg/reconcile resolves EndOfData against the actual
// scanned buffer's length via ResolveOffsets, since the loader has no
// buffer to resolve against at load time. See DESIGN.md's resolution of
// spec.md's open question.
type Expectation struct {
	Name        string
	StartOffset int
	EndOffset   int
}

// ResolveOffsets validates the raw offsets and resolves EndOfData
// sentinels against contentLen, returning a new Expectation with
// absolute, non-negative offsets (except that StartOffset may remain
// EndOfData only if contentLen is itself unknown at ingress, which
// callers should avoid).
func ResolveOffsets(name string, startOffset, endOffset, contentLen int) (Expectation, error) {
	if startOffset < EndOfData {
		return Expectation{}, fmt.Errorf("start offset %d: must be >= -1", startOffset)
	}
	if endOffset == 0 || endOffset < EndOfData {
		return Expectation{}, fmt.Errorf("end offset %d: must be positive, or -1", endOffset)
	}

	if startOffset == EndOfData {
		startOffset = contentLen
	}
	if endOffset == EndOfData {
		endOffset = contentLen
	}

	return Expectation{Name: name, StartOffset: startOffset, EndOffset: endOffset}, nil
}

// Pattern is a single named detection rule within a PatternSet.
type Pattern struct {
	Name         string
	Type         string
	Description  string
	Experimental bool
	Regex        Regex
	Expected     []Expectation
	Comments     []string
}

// PatternSet is the collection of patterns loaded from one patterns.yml
// file. display defaults to true. SourcePath is the path of the
// patterns.yml this set was loaded from, as found by walking the load
// root (absolute only when that root is).
type PatternSet struct {
	Name       string
	Display    bool
	Patterns   []Pattern
	SourcePath string
}

// Empty reports whether the set has no patterns, in which case it should
// be skipped rather than treated as an error (spec invariant).
func (ps PatternSet) Empty() bool {
	return len(ps.Patterns) == 0
}
