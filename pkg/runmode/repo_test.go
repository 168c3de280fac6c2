package runmode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advanced-security/patterntest/pkg/types"
)

func TestReadRepoList_SkipsBlankAndSlashlessLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repos.txt")
	require.NoError(t, os.WriteFile(path, []byte("\nowner/repo-a\n  \nnotarepo\nowner/repo-b\n"), 0o644))

	repos, err := readRepoList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner/repo-a", "owner/repo-b"}, repos)
}

func TestReadRepoList_ErrorsOnMissingFile(t *testing.T) {
	_, err := readRepoList(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestCloneRoot_FallsBackToTempDirWhenHomeUnset(t *testing.T) {
	orig, had := os.LookupEnv("HOME")
	os.Unsetenv("HOME")
	defer func() {
		if had {
			os.Setenv("HOME", orig)
		}
	}()

	dir, cleanup, err := cloneRoot()
	require.NoError(t, err)
	defer cleanup()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCloneRoot_UsesHomeLocalPatterntestRepos(t *testing.T) {
	home := t.TempDir()
	orig, had := os.LookupEnv("HOME")
	os.Setenv("HOME", home)
	defer func() {
		if had {
			os.Setenv("HOME", orig)
		} else {
			os.Unsetenv("HOME")
		}
	}()

	dir, cleanup, err := cloneRoot()
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, filepath.Join(home, ".local", "patterntest", "repos"), dir)
}

func TestCloneAndScan_SkipsMalformedEntriesAndReusesAlreadyClonedRepo(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "repos.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("malformed-without-slash\nowner/already-cloned\n"), 0o644))

	home := t.TempDir()
	orig, had := os.LookupEnv("HOME")
	os.Setenv("HOME", home)
	defer func() {
		if had {
			os.Setenv("HOME", orig)
		} else {
			os.Unsetenv("HOME")
		}
	}()

	// Pre-populate the clone directory so CloneAndScan's os.Stat check
	// finds it already present and skips the network clone entirely.
	repoPath := filepath.Join(home, ".local", "patterntest", "repos", "owner", "already-cloned")
	require.NoError(t, os.MkdirAll(repoPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "a.txt"), []byte("EXABCDEFGH12"), 0o644))

	patterns := []types.Pattern{{
		Name: "example token",
		Type: "example.token",
		Regex: types.Regex{
			Pattern: `EX[A-Z0-9]{10}`,
		},
	}}

	summary, err := CloneAndScan(patterns, listPath, DryRunOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.FilesScanned)
	assert.Equal(t, 1, summary.HitCounts["example token"])
}
