package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advanced-security/patterntest/pkg/alerts"
)

func TestWrite_ReplacesSecretWithSHA256Digest(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []alerts.Alert{{
		SecretType:            "example.token",
		SecretTypeDisplayName: "Example Token",
		Secret:                "EXABCDEFGH12",
		Path:                  "a.txt",
		StartLine:             1,
		EndLine:               1,
		StartColumn:           5,
		EndColumn:             17,
	}})
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("EXABCDEFGH12"))
	want := hex.EncodeToString(digest[:])

	out := buf.String()
	assert.NotContains(t, out, "EXABCDEFGH12")
	assert.Contains(t, out, want)
}

func TestWrite_SkipsVenvPrefixedPaths(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []alerts.Alert{{Path: ".venv/lib/secrets.py", Secret: "s"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1) // header only
}

func TestWrite_HeaderMatchesFixedColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	first := strings.Split(buf.String(), "\n")[0]
	assert.Equal(t, `secret_type,secret_type_display_name,secret,path,start_line,end_line,start_column,end_column`, first)
}

func TestWrite_ZeroIntFieldsRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []alerts.Alert{{Path: "a.txt", Secret: "s"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `,"",""`+"\n")
}

func TestDiff_ReturnsOnlyLinesNewInCurrent(t *testing.T) {
	baseline := []string{"a", "b"}
	current := []string{"a", "b", "c"}
	assert.Equal(t, []string{"c"}, Diff(baseline, current))
}

func TestDiff_EmptyWhenNothingNew(t *testing.T) {
	assert.Empty(t, Diff([]string{"a"}, []string{"a"}))
}
