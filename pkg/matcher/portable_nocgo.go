//go:build !cgo

package matcher

import (
	"fmt"
	"regexp"

	"github.com/advanced-security/patterntest/pkg/types"
)

// portableLocator is the CGO-free fallback for Stage 1, used when
// Hyperscan's C library is unavailable (mirrors the teacher's
// matcher_wasm.go / regexp.go split between a CGO-backed Hyperscan
// matcher and a pure Go regexp one). It loses Hyperscan's single-pass
// multi-pattern throughput, looping over each compiled pattern per
// scan instead, but preserves leftmost-match semantics: stdlib
// FindAllIndex already reports leftmost, non-overlapping matches.
type portableLocator struct {
	compiled []*regexp.Regexp
}

func newLocatorImpl(patterns []patternExpr) (locator, []*types.CompileError, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	var failures []*types.CompileError

	for i, p := range patterns {
		re, err := regexp.Compile(p.Combined)
		if err != nil {
			failures = append(failures, &types.CompileError{Type: p.Type, Err: err})
			continue
		}
		compiled[i] = re
	}

	if len(failures) > 0 {
		return nil, failures, fmt.Errorf("portable regexp compile failed for %d pattern(s)", len(failures))
	}

	return &portableLocator{compiled: compiled}, nil, nil
}

func (l *portableLocator) scan(content []byte, onHit func(patternIndex, start, end int)) error {
	for idx, re := range l.compiled {
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllIndex(content, -1) {
			onHit(idx, loc[0], loc[1])
		}
	}
	return nil
}

func (l *portableLocator) close() error { return nil }
