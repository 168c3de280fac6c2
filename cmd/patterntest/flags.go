package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/advanced-security/patterntest/pkg/loader"
	"github.com/advanced-security/patterntest/pkg/types"
)

var (
	filterIncludeType []string
	filterIncludeName []string
	filterExcludeType []string
	filterExcludeName []string

	noWarnOnAdditionalMatchesNumber bool
	additionalMatchesLimit          int
	ltGHES38                        bool
	noAdditionalMatches             bool
)

// defaultTestsDir mirrors the original tool's --tests default
// (spec.md §6: "default: parent of executable"), grounded on
// original_source/secretscanning/test.py's
// `default=Path(__file__).parent.parent` (the directory above the
// script's own directory). Go binaries have no package subdirectory
// to sit inside, so the analogous default is the directory containing
// the running executable itself. Falls back to "." if the executable
// path can't be resolved (e.g. under `go run`).
func defaultTestsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// addFilterFlags registers the include/exclude and additional-match
// warning flags shared by every command that loads patterns (spec.md §6).
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&filterIncludeType, "include", "i", nil, "Include these pattern types")
	cmd.Flags().StringSliceVarP(&filterExcludeType, "exclude", "x", nil, "Exclude these pattern types")
	cmd.Flags().BoolVarP(&noWarnOnAdditionalMatchesNumber, "no-warn-on-additional-matches-number", "W", false, "Do not warn on more than the additional matches limit")
	cmd.Flags().IntVarP(&additionalMatchesLimit, "additional-matches-limit", "a", loader.DefaultAdditionalMatchesLimit, "Set the additional matches warning limit")
	cmd.Flags().BoolVar(&ltGHES38, "lt-ghes-3-8", false, "Target GHES <= 3.7, which does not support anchors in additional matches")
	cmd.Flags().BoolVarP(&noAdditionalMatches, "no-additional-matches", "A", false, "Do not filter using additional_match/additional_not_match")
}

func loaderOptions() loader.Options {
	return loader.Options{
		Filter: loader.Filter{
			IncludeType: filterIncludeType,
			IncludeName: filterIncludeName,
			ExcludeType: filterExcludeType,
			ExcludeName: filterExcludeName,
		},
		NoWarnOnAdditionalMatchesNumber: noWarnOnAdditionalMatchesNumber,
		AdditionalMatchesLimit:          additionalMatchesLimit,
		LtGHES38:                        ltGHES38,
	}
}

// loadAllPatterns walks root and flattens every discovered PatternSet
// into one slice, logging (not failing on) load errors to errOut.
func loadAllPatterns(root string, errOut io.Writer) ([]types.Pattern, error) {
	sets, loadErrs, err := loader.Load(root, loaderOptions())
	if err != nil {
		return nil, err
	}
	for _, le := range loadErrs {
		fmt.Fprintf(errOut, "load error: %s: %v\n", le.Path, le.Err)
	}

	var patterns []types.Pattern
	for _, set := range sets {
		patterns = append(patterns, set.Patterns...)
	}
	return patterns, nil
}
