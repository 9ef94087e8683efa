package ignore

import (
	"path/filepath"

	"github.com/dircontxt/dctx/internal/pathutil"
)

// GlobalIgnorePath returns $HOME/.config/dircontxt/ignore, or "" if HOME is
// unset.
func GlobalIgnorePath() string {
	home := pathutil.HomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "dircontxt", "ignore")
}

// ProjectIgnorePath returns "<root>/.dircontxtignore".
func ProjectIgnorePath(root string) string {
	return filepath.Join(root, ".dircontxtignore")
}

// Load builds a fully-populated Engine for a snapshot of root whose output
// basename is outputBasename, loading the three tiers in the priority order
// spec.md §4.1 specifies: hardcoded defaults (lowest), global ignore file,
// then project ignore file (highest). Missing global/project files are not
// errors; an unreadable-for-other-reasons file surfaces as a non-fatal
// error so the caller can log it while continuing with whatever rules were
// loaded so far.
func Load(root, outputBasename string) (*Engine, error) {
	e := NewEngine(outputBasename)

	var firstErr error

	if global := GlobalIgnorePath(); global != "" {
		if err := e.LoadFile(global); err != nil {
			firstErr = err
		}
	}

	if err := e.LoadFile(ProjectIgnorePath(root)); err != nil && firstErr == nil {
		firstErr = err
	}

	return e, firstErr
}
