package matcher

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/advanced-security/patterntest/pkg/types"
)

// refiner is Stage 2 of the pipeline (spec.md §4.4): given a raw
// Stage-1 hit window, it extracts the start/pattern/end captures with a
// byte-safe stdlib regexp (named groups, no backtracking pathologies,
// grounded on the teacher's pkg/matcher/capture.go ExtractCaptures),
// then applies the additional_match/additional_not_match filters with
// dlclark/regexp2 against the secret fragment's bytes converted directly
// to a string (not the decodeBestEffort form used for reporting) —
// regexp2 is used here rather than for the byte extraction itself
// because its string-oriented, backtracking engine gives
// GHES-compatible anchor and lookaround semantics for the filters, at
// the cost of operating on runes rather than raw bytes. That trade only
// matters for the filters (yes/no decisions), never for the offsets,
// which are always computed from the byte-safe stdlib match.
type refiner struct {
	named       []*regexp.Regexp // index by pattern index; named RE2 groups start/pattern/end
	addMatch    [][]*regexp2.Regexp
	addNotMatch [][]*regexp2.Regexp
}

func newRefiner(patterns []types.Pattern) (*refiner, error) {
	r := &refiner{
		named:       make([]*regexp.Regexp, len(patterns)),
		addMatch:    make([][]*regexp2.Regexp, len(patterns)),
		addNotMatch: make([][]*regexp2.Regexp, len(patterns)),
	}

	for i, p := range patterns {
		re, err := regexp.Compile(p.Regex.NamedRE2())
		if err != nil {
			return nil, &types.CompileError{Type: p.Type, Err: fmt.Errorf("refinement regex: %w", err)}
		}
		r.named[i] = re

		for _, filt := range p.Regex.AdditionalMatch {
			fre, err := regexp2.Compile(filt, regexp2.None)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: additional_match %q: %w", p.Type, filt, err)
			}
			r.addMatch[i] = append(r.addMatch[i], fre)
		}
		for _, filt := range p.Regex.AdditionalNotMatch {
			fre, err := regexp2.Compile(filt, regexp2.None)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: additional_not_match %q: %w", p.Type, filt, err)
			}
			r.addNotMatch[i] = append(r.addNotMatch[i], fre)
		}
	}

	return r, nil
}

// refine extracts the start/pattern/end captures from content[start:end]
// and applies the additional-match filters. Returns ok=false when the
// refinement regex doesn't reproduce the Stage-1 hit (rare, treated the
// same as a filter-suppressed match) or when a filter suppressed it.
func (r *refiner) refine(content []byte, patternIndex, rawStart, rawEnd int, noAdditionalMatches bool) (types.Captured, int, int, bool, error) {
	re := r.named[patternIndex]
	window := content[rawStart:rawEnd]

	match := re.FindSubmatchIndex(window)
	if match == nil || match[0] != 0 || match[1] != len(window) {
		return types.Captured{}, 0, 0, false, nil
	}

	names := re.SubexpNames()
	groups := make(map[string][]byte, 3)
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		lo, hi := match[2*i], match[2*i+1]
		if lo < 0 || hi < 0 {
			continue
		}
		groups[name] = window[lo:hi]
	}

	startBytes := groups["start"]
	bodyBytes := groups["pattern"]
	endBytes := groups["end"]

	if !noAdditionalMatches {
		ok, err := r.passesFilters(patternIndex, bodyBytes)
		if err != nil {
			return types.Captured{}, 0, 0, false, err
		}
		if !ok {
			return types.Captured{}, 0, 0, false, nil
		}
	}

	captured := types.Captured{
		Start:   decodeBestEffort(startBytes),
		Pattern: decodeBestEffort(bodyBytes),
		End:     decodeBestEffort(endBytes),
	}

	// Adjust inward by the measured lengths of the start/end captures
	// (spec.md §4.4): the published offsets bound the body only.
	publishedStart := rawStart + len(startBytes)
	publishedEnd := rawEnd - len(endBytes)

	return captured, publishedStart, publishedEnd, true, nil
}

// passesFilters applies additional_match (all-of) and
// additional_not_match (none-of) semantics to the raw body bytes
// (spec.md §4.4). Both are anchored at position 0, matching the
// original tool's `pcre.compile(pat).match(...)` (Python/PCRE's
// .match(), not .search()): a filter matches only if it matches
// starting at the first byte of body, not anywhere within it.
func (r *refiner) passesFilters(patternIndex int, body []byte) (bool, error) {
	text := string(body)

	for _, fre := range r.addMatch[patternIndex] {
		ok, err := anchoredMatch(fre, text)
		if err != nil {
			return false, fmt.Errorf("additional_match evaluation failed: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	for _, fre := range r.addNotMatch[patternIndex] {
		ok, err := anchoredMatch(fre, text)
		if err != nil {
			return false, fmt.Errorf("additional_not_match evaluation failed: %w", err)
		}
		if ok {
			return false, nil
		}
	}

	return true, nil
}

// anchoredMatch reports whether fre matches text starting at offset 0,
// mirroring PCRE/Python's .match() rather than regexp2's unanchored
// MatchString (.search()).
func anchoredMatch(fre *regexp2.Regexp, text string) (bool, error) {
	m, err := fre.FindStringMatch(text)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	return m.Index == 0, nil
}

// decodeBestEffort decodes a captured byte slice for reporting only;
// offsets never depend on the result (spec.md §4.4). Tries UTF-8, then
// falls back to treating each byte as a Latin-1 code point, which never
// fails since every byte value 0-255 is a valid Unicode code point.
func decodeBestEffort(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
