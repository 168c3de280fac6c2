//go:build cgo

package matcher

import (
	"fmt"

	"github.com/flier/gohs/hyperscan"

	"github.com/advanced-security/patterntest/pkg/types"
)

// hyperscanLocator implements locator using Hyperscan's block-mode
// multi-pattern database, compiled with SomLeftMost|Utf8Mode so that
// reported offsets are leftmost-start-of-match and UTF-8 aware
// (spec.md §4.2).
type hyperscanLocator struct {
	db      hyperscan.BlockDatabase
	scratch *hyperscan.Scratch
}

func newLocatorImpl(patterns []patternExpr) (locator, []*types.CompileError, error) {
	hsPatterns := make([]*hyperscan.Pattern, len(patterns))
	for i, p := range patterns {
		hp := hyperscan.NewPattern(p.Combined, hyperscan.SomLeftMost|hyperscan.Utf8Mode)
		hp.Id = i
		hsPatterns[i] = hp
	}

	db, err := hyperscan.NewBlockDatabase(hsPatterns...)
	if err != nil {
		// Bulk compile failed: isolate the offender(s) by compiling each
		// pattern individually (spec.md §4.2).
		failures := isolateFailures(patterns)
		return nil, failures, fmt.Errorf("hyperscan bulk compile failed: %w", err)
	}

	scratch, err := hyperscan.NewScratch(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("allocating hyperscan scratch: %w", err)
	}

	return &hyperscanLocator{db: db, scratch: scratch}, nil, nil
}

func (l *hyperscanLocator) scan(content []byte, onHit func(patternIndex, start, end int)) error {
	return l.db.Scan(content, l.scratch, func(id uint, from, to uint64, flags uint, context interface{}) error {
		onHit(int(id), int(from), int(to))
		return nil
	}, nil)
}

func (l *hyperscanLocator) close() error {
	if l.scratch != nil {
		if err := l.scratch.Free(); err != nil {
			return err
		}
		l.scratch = nil
	}
	if l.db != nil {
		if err := l.db.Close(); err != nil {
			return err
		}
		l.db = nil
	}
	return nil
}

// isolateFailures compiles each pattern on its own against a fresh
// Hyperscan database, reporting every pattern whose individual compile
// fails (spec.md §8 "Compile isolation": exactly the offending
// pattern(s), identified by type, none other).
func isolateFailures(patterns []patternExpr) []*types.CompileError {
	var failures []*types.CompileError
	for _, p := range patterns {
		hp := hyperscan.NewPattern(p.Combined, hyperscan.SomLeftMost|hyperscan.Utf8Mode)
		hp.Id = 0
		if db, err := hyperscan.NewBlockDatabase(hp); err != nil {
			failures = append(failures, &types.CompileError{Type: p.Type, Err: err})
		} else {
			db.Close()
		}
	}
	return failures
}
