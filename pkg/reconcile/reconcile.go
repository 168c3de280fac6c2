// Package reconcile implements the Reconciler (spec.md §4.6): it
// compares the matches the Result Store observed for a pattern against
// that pattern's declared expectations, reporting missing expectations
// and unexpected matches.
package reconcile

import (
	"path/filepath"

	"github.com/advanced-security/patterntest/pkg/types"
)

// observed is the (name, start, end) triple a Match is reduced to for
// comparison against an Expectation — name is the basename of the
// file path in fixture mode (spec.md §4.6 "Equality rule").
type observed struct {
	name        string
	startOffset int
	endOffset   int
}

func observedOf(m *types.Match) observed {
	return observed{
		name:        filepath.Base(m.FilePath),
		startOffset: m.StartOffset,
		endOffset:   m.EndOffset,
	}
}

func observedOfExpectation(e types.Expectation) observed {
	return observed{name: e.Name, startOffset: e.StartOffset, endOffset: e.EndOffset}
}

// Pattern reconciles one pattern's declared expectations against its
// observed matches. contentLen resolves any -1 "end of data" sentinel
// in an expectation (spec.md §3, §9 Open Question — resolved at
// reconciliation rather than at load time, since the same Expectation
// may be reconciled against differently-sized buffers across run
// modes... in fixture mode each pattern has exactly one associated
// fixture file, so this is a single resolution per pattern).
//
// Patterns with no declared expectations are informational only: they
// never fail (spec.md §4.6).
func Pattern(pattern types.Pattern, matches []*types.Match, contentLen int) *types.ReconcileReport {
	report := &types.ReconcileReport{Pass: true}

	if len(pattern.Expected) == 0 {
		if len(matches) > 0 {
			report.Informational = append(report.Informational,
				"pattern has no declared expectations; matches are informational only")
		}
		return report
	}

	resolved := make([]types.Expectation, len(pattern.Expected))
	for i, e := range pattern.Expected {
		r, err := types.ResolveOffsets(e.Name, e.StartOffset, e.EndOffset, contentLen)
		if err != nil {
			report.Pass = false
			report.Errors = append(report.Errors, err)
			continue
		}
		resolved[i] = r
	}

	expectedSet := make(map[observed]types.Expectation, len(resolved))
	for _, e := range resolved {
		expectedSet[observedOfExpectation(e)] = e
	}

	observedSet := make(map[observed]*types.Match, len(matches))
	for _, m := range matches {
		observedSet[observedOf(m)] = m
	}

	for _, e := range resolved {
		key := observedOfExpectation(e)
		if _, ok := observedSet[key]; !ok {
			report.Pass = false
			report.Errors = append(report.Errors, &types.MissingExpectation{
				PatternType: pattern.Type,
				Expectation: e,
			})
		}
	}

	for _, m := range matches {
		key := observedOf(m)
		if _, ok := expectedSet[key]; !ok {
			report.Pass = false
			report.Errors = append(report.Errors, &types.UnexpectedMatch{
				PatternType: pattern.Type,
				Match:       *m,
			})
		}
	}

	return report
}

// PatternSet reconciles every pattern in ps against the matches the
// Result Store recorded for each (looked up by pattern name), merging
// the per-pattern reports into one ReconcileReport for the set.
// Reconciliation is idempotent: calling it twice against the same
// unmutated Store yields identical reports, since it only reads.
func PatternSet(ps *types.PatternSet, matchesByPattern map[string][]*types.Match, contentLenByPattern map[string]int) *types.ReconcileReport {
	merged := &types.ReconcileReport{SourcePath: ps.SourcePath, Pass: true}

	for _, p := range ps.Patterns {
		sub := Pattern(p, matchesByPattern[p.Name], contentLenByPattern[p.Name])
		if !sub.Pass {
			merged.Pass = false
		}
		merged.Errors = append(merged.Errors, sub.Errors...)
		merged.Informational = append(merged.Informational, sub.Informational...)
	}

	return merged
}
