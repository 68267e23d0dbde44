package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRepoDir(t *testing.T, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	return dir
}

func TestBatch_ScansRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	widgets := makeRepoDir(t, root, "widgets")
	gadgets := makeRepoDir(t, root, "nested/gadgets")
	makeRepoDir(t, root, "node_modules/dep")

	a, cfg := testApp(t, map[string]*fakeSource{
		widgets: repoOf("widgets"),
		gadgets: repoOf("gadgets"),
	})

	code, stdout, stderr := run(a, "batch", root, "--config", cfg, "--format", "json", "--year", "2024")
	require.Equal(t, 0, code, stderr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))

	overview, ok := decoded["overview"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 4.0, overview["commits"], 1e-9)

	projects, ok := decoded["projects"].([]any)
	require.True(t, ok)
	assert.Len(t, projects, 2)
	assert.Nil(t, decoded["failed"])
}

func TestBatch_ExplicitRepos(t *testing.T) {
	t.Parallel()

	widgets := t.TempDir()
	a, cfg := testApp(t, map[string]*fakeSource{widgets: repoOf("widgets")})

	code, stdout, stderr := run(a, "batch", "--config", cfg, "--format", "json",
		"--repos", widgets+",/missing/repo")
	require.Equal(t, 0, code, stderr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))

	failed, ok := decoded["failed"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"/missing/repo"}, failed)
}

func TestBatch_NoRepositories(t *testing.T) {
	t.Parallel()

	a, cfg := testApp(t, map[string]*fakeSource{})

	code, _, stderr := run(a, "batch", t.TempDir(), "--config", cfg, "--format", "json")
	require.Equal(t, 1, code)

	var rep ErrorReport
	require.NoError(t, json.Unmarshal([]byte(stderr), &rep))
	assert.Equal(t, CodeNoData, rep.Code)
}

func TestBatch_RootNotDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	a, cfg := testApp(t, map[string]*fakeSource{})

	code, _, stderr := run(a, "batch", file, "--config", cfg, "--format", "json")
	require.Equal(t, 1, code)

	var rep ErrorReport
	require.NoError(t, json.Unmarshal([]byte(stderr), &rep))
	assert.Equal(t, CodeRepoNotFound, rep.Code)
}
