package types

import "fmt"

// LoadError records a single pattern (or patterns.yml file) skipped
// during loading because of a config error — spec.md §7's "Config
// error" taxonomy entry: log and skip, never abort the run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// CompileError records one pattern that failed to compile during the
// Matcher Compiler's per-pattern fallback phase (spec.md §4.2).
type CompileError struct {
	Type string // the offending pattern's stable type label
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern %q failed to compile: %v", e.Type, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// FatalError marks a condition that must abort the run with a non-zero
// exit code: a refinement or filter-regex compile failure, or an
// unrecoverable locator compile error. The platform check does not use
// it; it exits the process directly.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// MissingExpectation records a declared Expectation that no observed
// Match reproduced.
type MissingExpectation struct {
	PatternType string
	Expectation Expectation
}

func (e *MissingExpectation) Error() string {
	return fmt.Sprintf("unmatched expected location for %q: %s:%d-%d",
		e.PatternType, e.Expectation.Name, e.Expectation.StartOffset, e.Expectation.EndOffset)
}

// UnexpectedMatch records an observed Match that no declared
// Expectation accounts for.
type UnexpectedMatch struct {
	PatternType string
	Match       Match
}

func (e *UnexpectedMatch) Error() string {
	return fmt.Sprintf("matched unexpected result for %q: %s:%d-%d",
		e.PatternType, e.Match.FilePath, e.Match.StartOffset, e.Match.EndOffset)
}

// ReconcileReport is the per-PatternSet aggregation of the Reconciler's
// verdicts.
type ReconcileReport struct {
	SourcePath string
	Pass       bool
	Errors     []error // *MissingExpectation / *UnexpectedMatch, in discovery order
	Informational []string // one note per pattern that has no Expected entries but produced matches
}
