// Package snapshot serializes a set of secret-scanning alerts to the
// CSV snapshot format (spec.md §6), and diffs two snapshots, grounded
// on original_source/secretscanning/snapshots.py.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/advanced-security/patterntest/pkg/alerts"
)

// header is the fixed column order of the CSV snapshot format.
var header = []string{
	"secret_type",
	"secret_type_display_name",
	"secret",
	"path",
	"start_line",
	"end_line",
	"start_column",
	"end_column",
}

// venvPrefix is skipped when writing a snapshot: virtualenv-managed
// files are noise in a scanned-repo snapshot (original's "might need
// to be removed" TODO, kept as the behavior it documents).
const venvPrefix = ".venv"

// Write serializes alerts as a quoted-field CSV snapshot to w. The
// secret field is replaced with its SHA-256 hex digest, never the raw
// secret value, matching the original's createSnapshot. Alerts whose
// Path starts with ".venv" are skipped.
func Write(w io.Writer, items []alerts.Alert) error {
	if _, err := fmt.Fprintln(w, strings.Join(header, ",")); err != nil {
		return err
	}

	for _, a := range items {
		if strings.HasPrefix(a.Path, venvPrefix) {
			continue
		}

		digest := sha256.Sum256([]byte(a.Secret))
		fields := []string{
			quote(a.SecretType),
			quote(a.SecretTypeDisplayName),
			quote(hex.EncodeToString(digest[:])),
			quote(a.Path),
			quote(intOrEmpty(a.StartLine)),
			quote(intOrEmpty(a.EndLine)),
			quote(intOrEmpty(a.StartColumn)),
			quote(intOrEmpty(a.EndColumn)),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}

	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Diff returns the lines present in current but absent from baseline,
// in current's order, an in-process replacement for the original
// tool's `git diff --no-index` subprocess call (spec.md §1 explicitly
// scopes that subprocess out; spec.md §9 leaves the comparison itself
// in scope). Line-level, not a structural CSV diff: adequate for
// reporting newly-appeared snapshot rows.
func Diff(baseline, current []string) []string {
	seen := make(map[string]bool, len(baseline))
	for _, line := range baseline {
		seen[line] = true
	}

	var added []string
	for _, line := range current {
		if !seen[line] {
			added = append(added, line)
		}
	}
	return added
}
