package runmode

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/advanced-security/patterntest/pkg/types"
)

// cloneRoot returns the directory repo-clone scans clone into:
// $HOME/.local/patterntest/repos, or a temp directory if HOME is
// unset (spec.md §4.7/§5 "Repo-clone scan"). The caller is
// responsible for removing the returned cleanup directory, if any,
// once scanning completes.
func cloneRoot() (dir string, cleanup func(), err error) {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		tmp, err := os.MkdirTemp("", "patterntest-repos-")
		if err != nil {
			return "", nil, fmt.Errorf("creating temporary clone directory: %w", err)
		}
		slog.Warn("HOME not set, using temporary directory for clones", "dir", tmp)
		return tmp, func() { os.RemoveAll(tmp) }, nil
	}

	dir = filepath.Join(home, ".local", "patterntest", "repos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating clone directory %s: %w", dir, err)
	}
	return dir, func() {}, nil
}

// readRepoList parses a file of "owner/name" lines (spec.md §6), one
// per repository to clone, skipping blank lines and anything without
// a slash.
func readRepoList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening repo list %s: %w", path, err)
	}
	defer f.Close()

	var repos []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "/") {
			repos = append(repos, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading repo list %s: %w", path, err)
	}
	return repos, nil
}

// CloneAndScan clones each "owner/name" repository listed in
// repoListPath into a per-run cache directory, then dry-run-scans the
// clone, accumulating results across repositories (spec.md §4.7
// "Repo-clone scan"). A repository whose directory already exists is
// scanned without cloning again. A clone failure (network error,
// nonexistent repository) is logged and skipped; it never aborts the
// run.
func CloneAndScan(patterns []types.Pattern, repoListPath string, opts DryRunOptions) (*Summary, error) {
	repos, err := readRepoList(repoListPath)
	if err != nil {
		return nil, err
	}

	root, cleanup, err := cloneRoot()
	if err != nil {
		return nil, err
	}
	defer cleanup()
	slog.Info("cloned repos path", "dir", root)

	total := newSummary()

	for _, repoName := range repos {
		parts := strings.SplitN(repoName, "/", 2)
		if len(parts) != 2 {
			slog.Warn("skipping malformed repo entry", "entry", repoName)
			continue
		}
		owner, name := parts[0], parts[1]
		repoPath := filepath.Join(root, owner, name)

		if _, err := os.Stat(repoPath); err != nil {
			url := fmt.Sprintf("https://github.com/%s/%s", owner, name)
			_, err := git.PlainClone(repoPath, false, &git.CloneOptions{URL: url})
			if err != nil {
				slog.Debug("failed to clone repo, does it exist? was it already cloned?",
					"repo", repoName, "err", err)
			}
		}

		slog.Info("scanning repo", "repo", repoName)

		summary, err := DryRun(patterns, repoPath, opts)
		if err != nil {
			slog.Debug("failed to scan cloned repo", "repo", repoName, "err", err)
			continue
		}

		total.BytesScanned += summary.BytesScanned
		total.FilesScanned += summary.FilesScanned
		for name, count := range summary.HitCounts {
			total.HitCounts[name] += count
		}
		if opts.Collect {
			total.Hits = append(total.Hits, summary.Hits...)
		}
	}

	return total, nil
}
