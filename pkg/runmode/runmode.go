// Package runmode implements the four run modes (spec.md §4.7):
// fixture testing, external dry-run scanning, random-input fuzzing,
// and clone-then-scan of a list of remote repositories. Each mode is
// grounded on the corresponding function in
// original_source/secretscanning/test.py (test_patterns,
// dry_run_patterns, random_test_patterns, repo_test_patterns).
package runmode

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/advanced-security/patterntest/pkg/loader"
	"github.com/advanced-security/patterntest/pkg/matcher"
	"github.com/advanced-security/patterntest/pkg/reconcile"
	"github.com/advanced-security/patterntest/pkg/store"
	"github.com/advanced-security/patterntest/pkg/types"
)

// excludedNames are skipped when walking a fixture directory for
// content files to scan (spec.md §4.7 Fixture test).
var excludedNames = map[string]bool{
	"README.md":      true,
	loader.Filename:  true,
}

// pathExcludes are directory basenames never descended into during a
// dry-run or repo-clone walk (spec.md §4.7 Dry-run scan).
var pathExcludes = map[string]bool{".git": true}

// Report is the outcome of a Fixture run: one entry per discovered
// patterns.yml, plus whether every one of them passed.
type Report struct {
	Pass       bool
	SetReports []*types.ReconcileReport
}

// Fixture walks root for patterns.yml files, and for each directory
// compiles its patterns, scans every sibling file (excluding the
// pattern file itself and README.md), and reconciles (spec.md §4.7
// "Fixture test"). A directory that declares patterns but matches
// nothing it doesn't expect, and finds everything it does, passes.
func Fixture(root string, opts loader.Options, noAdditionalMatches bool) (*Report, error) {
	sets, loadErrs, err := loader.Load(root, opts)
	if err != nil {
		return nil, fmt.Errorf("loading fixtures: %w", err)
	}
	for _, le := range loadErrs {
		slog.Error("fixture load error", "path", le.Path, "err", le.Err)
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("no patterns.yml found under %s", root)
	}

	report := &Report{Pass: true}

	for _, set := range sets {
		dir := filepath.Dir(set.SourcePath)
		setReport, err := fixtureSet(dir, set, noAdditionalMatches)
		if err != nil {
			return nil, fmt.Errorf("testing fixtures in %s: %w", dir, err)
		}
		if !setReport.Pass {
			report.Pass = false
		}
		report.SetReports = append(report.SetReports, setReport)
	}

	return report, nil
}

func fixtureSet(dir string, set *types.PatternSet, noAdditionalMatches bool) (*types.ReconcileReport, error) {
	compiled, failures, err := matcher.Compile(set.Patterns)
	for _, f := range failures {
		slog.Error("compile failure", "type", f.Type, "err", f.Err)
	}
	if err != nil {
		return nil, err
	}
	defer compiled.Close()

	s := store.New()
	contentLenByName := make(map[string]int, len(set.Patterns))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || excludedNames[entry.Name()] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("failed to read fixture file", "path", path, "err", err)
			continue
		}

		matches, err := compiled.Scan(content, entry.Name(), matcher.ScanOptions{NoAdditionalMatches: noAdditionalMatches})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		for _, m := range matches {
			patternName := compiled.PatternAt(m.PatternIndex).Name
			s.Add(patternName, m)
			contentLenByName[patternName] = len(content)
		}
	}

	matchesByPattern := make(map[string][]*types.Match, len(set.Patterns))
	for _, p := range set.Patterns {
		matchesByPattern[p.Name] = s.Get(p.Name)
	}

	return reconcile.PatternSet(set, matchesByPattern, contentLenByName), nil
}

// Summary is the outcome of a dry-run, fuzz, or repo-clone scan: total
// bytes/files processed and per-pattern hit counts (spec.md §4.7).
type Summary struct {
	BytesScanned int64
	FilesScanned int64
	HitCounts    map[string]int
	Hits         []*types.Match // populated only when DryRunOptions.Collect is set
}

func newSummary() *Summary {
	return &Summary{HitCounts: make(map[string]int)}
}

func (s *Summary) record(patternName string, m *types.Match, collect bool) {
	s.HitCounts[patternName]++
	if collect {
		s.Hits = append(s.Hits, m)
	}
}

// DryRunOptions controls a dry-run or repo-clone scan.
type DryRunOptions struct {
	NoAdditionalMatches bool
	Collect             bool // retain every hit in Summary.Hits, not just counts
}

// DryRun compiles the union of patterns and walks extraDir recursively,
// scanning every file it can read (spec.md §4.7 "Dry-run scan").
// Unreadable files are logged at debug level and skipped, matching the
// original tool's tolerance for permission errors mid-walk.
func DryRun(patterns []types.Pattern, extraDir string, opts DryRunOptions) (*Summary, error) {
	compiled, failures, err := matcher.Compile(patterns)
	for _, f := range failures {
		slog.Error("compile failure", "type", f.Type, "err", f.Err)
	}
	if err != nil {
		return nil, err
	}
	defer compiled.Close()

	summary := newSummary()

	err = filepath.WalkDir(extraDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if pathExcludes[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("failed to open and read file", "path", path, "err", err)
			return nil
		}

		rel, err := filepath.Rel(extraDir, path)
		if err != nil {
			rel = path
		}

		matches, err := compiled.Scan(content, rel, matcher.ScanOptions{NoAdditionalMatches: opts.NoAdditionalMatches})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		for _, m := range matches {
			summary.record(compiled.PatternAt(m.PatternIndex).Name, m, opts.Collect)
		}

		summary.BytesScanned += int64(len(content))
		summary.FilesScanned++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", extraDir, err)
	}

	return summary, nil
}

// LogSummary prints a one-line totals message and a per-pattern hit
// count, mirroring the original tool's print_summary.
func LogSummary(summary *Summary) {
	slog.Info("summary", "bytes", summary.BytesScanned, "files", summary.FilesScanned)
	names := make([]string, 0, len(summary.HitCounts))
	for name := range summary.HitCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		slog.Info(name, "hits", summary.HitCounts[name])
	}
}
