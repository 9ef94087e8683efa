package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dircontxt/dctx/internal/dctxerr"
)

func TestRootCommandUse(t *testing.T) {
	assert.Equal(t, "dctx [path]", rootCmd.Use)
}

func TestRootCommandSilenceUsage(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCommandSilenceErrors(t *testing.T) {
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCommandHasClipboardFlag(t *testing.T) {
	flag := rootCmd.Flags().Lookup("clipboard")
	require.NotNil(t, flag, "root command must have --clipboard flag")
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCommandHasVersionFlag(t *testing.T) {
	flag := rootCmd.Flags().Lookup("version")
	require.NotNil(t, flag, "root command must have --version flag")
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCommandHasVerboseAndQuietFlags(t *testing.T) {
	verbose := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose, "root command must have --verbose flag")
	assert.Equal(t, "false", verbose.DefValue)

	quiet := rootCmd.PersistentFlags().Lookup("quiet")
	require.NotNil(t, quiet, "root command must have --quiet flag")
	assert.Equal(t, "false", quiet.DefValue)
}

func TestExecuteWithVerboseFlagEnablesDebugLogging(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644))

	rootCmd.SetArgs([]string{"--verbose", dir})
	defer rootCmd.SetArgs(nil)
	defer func() { verboseFlag = false }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, dctxerr.ExitSuccess, code)
	assert.True(t, verboseFlag)
}

func TestExecuteWithHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.Flags().Set("help", "false")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, dctxerr.ExitSuccess, code)
	assert.Contains(t, buf.String(), "Snapshot a directory")
}

func TestExecuteWithVersionFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"--version"})
	defer rootCmd.SetArgs(nil)
	defer func() { versionFlag = false }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, dctxerr.ExitSuccess, code)
	assert.Contains(t, buf.String(), "dctx")
}

func TestExecuteWithUnknownFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"--nonexistent-flag"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetErr(buf)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, dctxerr.ExitError, code)
}

func TestExecuteSnapshotsGivenPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644))

	rootCmd.SetArgs([]string{dir})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, dctxerr.ExitSuccess, code)
	assert.Contains(t, buf.String(), "snapshot V1 written")
}

func TestRootCmdReturnsCommand(t *testing.T) {
	cmd := RootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "dctx [path]", cmd.Use)
}

func TestExtractExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error returns ExitSuccess", nil, dctxerr.ExitSuccess},
		{"generic error returns ExitError", errors.New("boom"), dctxerr.ExitError},
		{"fatal dctxerr returns ExitError", dctxerr.Fatal("bad", errors.New("cause")), dctxerr.ExitError},
		{"wrapped fatal dctxerr preserves exit code", fmt.Errorf("outer: %w", dctxerr.Fatal("bad", nil)), dctxerr.ExitError},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, extractExitCode(tc.err))
		})
	}
}
