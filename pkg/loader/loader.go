// Package loader walks a directory tree for patterns.yml files and
// parses them into normalized types.PatternSet values (spec.md §4.1).
package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/advanced-security/patterntest/pkg/types"
	"gopkg.in/yaml.v3"
)

// Filename is the basename every pattern-config file must have.
const Filename = "patterns.yml"

// DefaultAdditionalMatchesLimit is the default threshold for the
// additional-match/additional-not-match count warning (spec.md §6).
const DefaultAdditionalMatchesLimit = 5

// Filter selects which patterns a loaded PatternSet keeps, by glob
// matching against a pattern's type or name (spec.md §4.1). Glob syntax
// is filepath.Match's: "*", "?", "[...]".
type Filter struct {
	IncludeType []string
	IncludeName []string
	ExcludeType []string
	ExcludeName []string
}

// keep reports whether p survives the filter: (no include OR any include
// matches) AND (no exclude matches).
func (f Filter) keep(p types.Pattern) bool {
	return f.Keep(p.Type, p.Name)
}

// Keep reports whether a pattern identified by typeName/name survives
// the filter. Exported so other packages (pkg/combine) that walk raw
// pattern documents without going through convertPattern can apply the
// exact same filtering rule.
func (f Filter) Keep(typeName, name string) bool {
	hasInclude := len(f.IncludeType) > 0 || len(f.IncludeName) > 0
	included := !hasInclude
	if matchesAny(f.IncludeType, typeName) || matchesAny(f.IncludeName, name) {
		included = true
	}
	if !included {
		return false
	}
	if matchesAny(f.ExcludeType, typeName) || matchesAny(f.ExcludeName, name) {
		return false
	}
	return true
}

func matchesAny(globs []string, value string) bool {
	for _, g := range globs {
		if ok, err := filepath.Match(g, value); err == nil && ok {
			return true
		}
	}
	return false
}

// Options configures loading behavior beyond the basic Filter.
type Options struct {
	Filter Filter

	// NoWarnOnAdditionalMatchesNumber disables the "too many additional
	// matches" warning entirely.
	NoWarnOnAdditionalMatchesNumber bool
	// AdditionalMatchesLimit overrides DefaultAdditionalMatchesLimit
	// when positive.
	AdditionalMatchesLimit int

	// LtGHES38 enables the anchor-in-additional-match warning for
	// GHES <= 3.7 targets (spec.md §6).
	LtGHES38 bool
}

func (o Options) limit() int {
	if o.AdditionalMatchesLimit > 0 {
		return o.AdditionalMatchesLimit
	}
	return DefaultAdditionalMatchesLimit
}

// Load walks root recursively, parsing every patterns.yml it finds.
// Returns the discovered PatternSets ordered by SourcePath (spec.md §3
// "Loader determinism"), plus any individual patterns skipped due to
// config errors. Load never aborts the walk because of a single bad
// pattern or a single bad file — it logs and continues (spec.md §7.1).
func Load(root string, opts Options) ([]*types.PatternSet, []*types.LoadError, error) {
	var sets []*types.PatternSet
	var loadErrs []*types.LoadError

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != Filename {
			return nil
		}

		set, errs := LoadFile(path, opts)
		loadErrs = append(loadErrs, errs...)
		if set == nil {
			return nil
		}
		if set.Empty() {
			// Empty pattern sets are skipped, not errors (spec invariant).
			return nil
		}
		sets = append(sets, set)
		return nil
	})
	if err != nil {
		return nil, loadErrs, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].SourcePath < sets[j].SourcePath
	})

	return sets, loadErrs, nil
}

// LoadFile parses a single patterns.yml file at path. A malformed
// document is reported as a single *types.LoadError with a nil
// PatternSet; a malformed individual pattern is skipped and reported,
// but the rest of the file is still parsed (spec.md §4.1 errors).
func LoadFile(path string, opts Options) (*types.PatternSet, []*types.LoadError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []*types.LoadError{{Path: path, Err: err}}
	}

	var doc yamlPatternsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Error("failed to parse patterns file", "path", path, "err", err)
		return nil, []*types.LoadError{{Path: path, Err: fmt.Errorf("parsing yaml: %w", err)}}
	}

	display := true
	if doc.Display != nil {
		display = *doc.Display
	}

	set := &types.PatternSet{
		Name:       doc.Name,
		Display:    display,
		SourcePath: path,
	}

	var loadErrs []*types.LoadError
	for _, yp := range doc.Patterns {
		pattern, err := convertPattern(yp, opts)
		if err != nil {
			slog.Error("failed to validate pattern", "path", path, "name", yp.Name, "err", err)
			loadErrs = append(loadErrs, &types.LoadError{Path: path, Err: err})
			continue
		}
		if pattern == nil {
			// filtered out by include/exclude globs
			continue
		}
		set.Patterns = append(set.Patterns, *pattern)
	}

	return set, loadErrs
}

// convertPattern normalizes one yamlPattern into a types.Pattern,
// applying the Filter and the additional-matches warnings. Returns
// (nil, nil) when the pattern is filtered out (not an error).
func convertPattern(yp yamlPattern, opts Options) (*types.Pattern, error) {
	patternStr := strings.TrimSpace(yp.Regex.Pattern)
	if patternStr == "" {
		return nil, fmt.Errorf("pattern %q: empty regex.pattern after trim", yp.Name)
	}

	regex := types.Regex{
		Pattern:            patternStr,
		Version:            types.NormalizeVersion(string(yp.Regex.Version)),
		Start:              strings.TrimSpace(yp.Regex.Start),
		End:                strings.TrimSpace(yp.Regex.End),
		AdditionalMatch:    trimAll(yp.Regex.AdditionalMatch),
		AdditionalNotMatch: trimAll(yp.Regex.AdditionalNotMatch),
	}

	expected := make([]types.Expectation, 0, len(yp.Expected))
	for _, ye := range yp.Expected {
		if ye.StartOffset < types.EndOfData {
			return nil, fmt.Errorf("pattern %q: start_offset %d must be >= -1", yp.Name, ye.StartOffset)
		}
		if ye.EndOffset == 0 || ye.EndOffset < types.EndOfData {
			return nil, fmt.Errorf("pattern %q: end_offset %d must be positive, or -1", yp.Name, ye.EndOffset)
		}
		expected = append(expected, types.Expectation{
			Name:        ye.Name,
			StartOffset: ye.StartOffset,
			EndOffset:   ye.EndOffset,
		})
	}

	p := types.Pattern{
		Name:         strings.TrimSpace(yp.Name),
		Type:         strings.TrimSpace(yp.Type),
		Description:  strings.TrimSpace(yp.Description),
		Experimental: yp.Experimental,
		Regex:        regex,
		Expected:     expected,
		Comments:     yp.Comments,
	}

	if !opts.Filter.keep(p) {
		return nil, nil
	}

	warnAdditionalMatches(p, opts)
	warnAnchors(p, opts)

	return &p, nil
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func warnAdditionalMatches(p types.Pattern, opts Options) {
	if opts.NoWarnOnAdditionalMatchesNumber {
		return
	}
	count := len(p.Regex.AdditionalMatch) + len(p.Regex.AdditionalNotMatch)
	if count > opts.limit() {
		slog.Warn("number of additional matches exceeds upload limit",
			"pattern", p.Type, "count", count, "limit", opts.limit())
	}
}

func warnAnchors(p types.Pattern, opts Options) {
	if !opts.LtGHES38 {
		return
	}
	for _, item := range append(append([]string{}, p.Regex.AdditionalMatch...), p.Regex.AdditionalNotMatch...) {
		if strings.HasPrefix(item, "^") || strings.HasSuffix(item, "$") {
			slog.Warn("GHES <= 3.7 does not support anchors in additional matches",
				"pattern", p.Type, "regex", item)
		}
	}
}
