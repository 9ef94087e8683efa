package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineDefaultsAlwaysIgnoreGit(t *testing.T) {
	t.Parallel()

	e := NewEngine("out.dircontxt")
	assert.True(t, e.IsIgnored(".git", ".git", true))
	assert.True(t, e.IsIgnored(".DS_Store", ".DS_Store", false))
	assert.True(t, e.IsIgnored("node_modules", "node_modules", true))
	assert.True(t, e.IsIgnored("out.dircontxt", "out.dircontxt", false))
	assert.False(t, e.IsIgnored("main.go", "main.go", false))
}

func TestEngineLastMatchWins(t *testing.T) {
	t.Parallel()

	// Scenario 5 from spec.md §8: *.log excludes, but a later negation for
	// one specific file wins back.
	e := NewEngine("")
	e.LoadLines([]string{"*.log", "!ignored.log"})

	assert.False(t, e.IsIgnored("build/ignored.log", "ignored.log", false),
		"negated rule loaded after the suffix rule must win")
	assert.True(t, e.IsIgnored("build/debug.log", "debug.log", false),
		"no negation applies to debug.log")
}

func TestEngineLoadFileMissingIsNotError(t *testing.T) {
	t.Parallel()

	e := NewEngine("")
	err := e.LoadFile(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Equal(t, 3, e.RuleCount())
}

func TestEngineLoadFileSkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".dircontxtignore")
	content := "\n# a comment\n  \n*.tmp\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	e := NewEngine("")
	require.NoError(t, e.LoadFile(path))

	assert.True(t, e.IsIgnored("a/b.tmp", "b.tmp", false))
}

func TestLoadOrdersTiersDefaultsThenGlobalThenProject(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, ".dircontxtignore"),
		[]byte("!node_modules/\n"),
		0o644,
	))

	t.Setenv("HOME", t.TempDir())

	e, err := Load(root, "snap.dircontxt")
	require.NoError(t, err)

	// The project tier's negation was loaded after the hardcoded default,
	// so it wins: node_modules is no longer ignored.
	assert.False(t, e.IsIgnored("node_modules", "node_modules", true))
}
