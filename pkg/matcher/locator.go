package matcher

import "github.com/advanced-security/patterntest/pkg/types"

// locator is Stage 1 of the two-stage pipeline (spec.md §9 "Two-engine
// regex pipeline"): a multi-pattern streaming matcher that reports hit
// offsets but never sub-captures. Both implementations invoke onHit
// synchronously on the calling goroutine, before scan returns.
type locator interface {
	scan(content []byte, onHit func(patternIndex, start, end int)) error
	close() error
}

// newLocator builds the Stage-1 locator for patterns, in the same order
// as patterns (locator hit indices refer back into this slice). Its
// implementation is chosen at build time: Hyperscan when CGO is
// available (hyperscanLocator, hyperscan_cgo.go), a portable
// stdlib-regexp loop otherwise (portableLocator, portable_nocgo.go).
//
// On bulk-compile failure it isolates the offending pattern(s) by
// compiling each individually, matching spec.md §4.2's "fall back to
// per-pattern compile-on-error to identify the offender".
func newLocator(patterns []patternExpr) (locator, []*types.CompileError, error) {
	return newLocatorImpl(patterns)
}

// patternExpr bundles the combined regex string a locator compiles with
// the original pattern's stable type label, used only for error
// reporting.
type patternExpr struct {
	Type     string
	Combined string
}
