// Package matcher implements the two-stage regex pipeline (spec.md
// §4.2/§4.4): a fast multi-pattern locator finds candidate hit windows,
// then a refiner extracts named start/pattern/end captures from each
// window and applies the additional-match filters.
package matcher

import (
	"fmt"

	"github.com/advanced-security/patterntest/pkg/types"
)

// Compiled is a ready-to-scan pattern set: Stage 1 locator plus Stage 2
// refiner, indexed in lockstep by pattern index.
type Compiled struct {
	patterns []types.Pattern
	loc      locator
	ref      *refiner
}

// Compile builds the two-stage pipeline for patterns. If any pattern
// fails to compile it returns a nil *Compiled and a *types.FatalError,
// together with every per-pattern failure it could isolate (spec.md §4.2).
func Compile(patterns []types.Pattern) (*Compiled, []*types.CompileError, error) {
	if len(patterns) == 0 {
		return &Compiled{}, nil, nil
	}

	exprs := make([]patternExpr, len(patterns))
	for i, p := range patterns {
		exprs[i] = patternExpr{Type: p.Type, Combined: p.Regex.Combined()}
	}

	loc, failures, err := newLocator(exprs)
	if err != nil {
		return nil, failures, &types.FatalError{Err: fmt.Errorf("compiling locator: %w", err)}
	}

	ref, err := newRefiner(patterns)
	if err != nil {
		loc.close()
		return nil, failures, &types.FatalError{Err: fmt.Errorf("compiling refiner: %w", err)}
	}

	return &Compiled{patterns: patterns, loc: loc, ref: ref}, failures, nil
}

// Close releases any native resources held by Stage 1 (the Hyperscan
// database and scratch space, when built with CGO).
func (c *Compiled) Close() error {
	if c.loc == nil {
		return nil
	}
	return c.loc.close()
}

// ScanOptions controls per-scan behavior.
type ScanOptions struct {
	// NoAdditionalMatches disables the additional_match/additional_not_match
	// filters, reporting every Stage-1 hit that Stage 2 can refine
	// (spec.md §6, --no-additional-matches).
	NoAdditionalMatches bool
}

// Scan runs both stages over content, attributing matches to filePath.
// Hits whose refinement regex fails to reproduce the Stage-1 window, or
// that are suppressed by an additional-match filter, are silently
// dropped (spec.md §4.4) rather than surfaced as errors; a filter
// evaluation error is propagated.
func (c *Compiled) Scan(content []byte, filePath string, opts ScanOptions) ([]*types.Match, error) {
	if c.loc == nil {
		return nil, nil
	}

	var matches []*types.Match
	var scanErr error

	err := c.loc.scan(content, func(patternIndex, start, end int) {
		if scanErr != nil {
			return
		}
		captured, pubStart, pubEnd, ok, err := c.ref.refine(content, patternIndex, start, end, opts.NoAdditionalMatches)
		if err != nil {
			scanErr = fmt.Errorf("pattern %q: %w", c.patterns[patternIndex].Type, err)
			return
		}
		if !ok {
			return
		}
		matches = append(matches, &types.Match{
			PatternIndex: patternIndex,
			FilePath:     filePath,
			StartOffset:  pubStart,
			EndOffset:    pubEnd,
			Captured:     captured,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	if scanErr != nil {
		return nil, scanErr
	}

	return matches, nil
}

// PatternAt returns the pattern registered at patternIndex, for callers
// (reconciler, CLI) that need to map a Match back to its declaration.
func (c *Compiled) PatternAt(patternIndex int) types.Pattern {
	return c.patterns[patternIndex]
}
