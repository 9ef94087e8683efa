package ignore

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
)

// defaultPatterns are the hardcoded, lowest-priority ignore rules always
// loaded first, per spec.md §4.1 item 1.
var defaultPatterns = []string{
	".git/",
	".DS_Store",
	"node_modules/",
}

// Engine holds the merged, ordered rule list built from the three priority
// tiers (defaults, global file, project file) and evaluates candidates
// against it with last-match-wins semantics.
type Engine struct {
	rules  []Rule
	logger *slog.Logger
}

// NewEngine constructs an Engine whose rule list starts with the hardcoded
// defaults plus a rule ignoring outputBasename (the snapshot's own output
// filename, per spec.md §4.1 item 1). Use Load to add the global and
// project tiers on top.
func NewEngine(outputBasename string) *Engine {
	e := &Engine{
		logger: slog.Default().With("component", "ignore"),
	}
	for _, p := range defaultPatterns {
		e.rules = append(e.rules, Classify(p))
	}
	if outputBasename != "" {
		e.rules = append(e.rules, Classify(outputBasename))
	}
	return e
}

// LoadFile parses an ignore file at path and appends its rules to the
// engine's rule list, in file order, on top of whatever is already loaded.
// A missing file is not an error (spec.md §4.1: "missing file is not an
// error"). A file that exists but cannot be opened for another reason
// returns a KindIO-flavored error to the caller; the engine keeps whatever
// rules it had loaded so far and the run continues.
func (e *Engine) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		e.logger.Warn("cannot open ignore file", "path", path, "error", err)
		return err
	}
	defer f.Close()

	e.loadReader(f, path)
	return nil
}

// loadReader scans r line by line, classifying each non-blank, non-comment
// line into a Rule and appending it. Parsing errors on an individual line
// are not possible by construction (Classify never fails); a line that is
// blank or a comment is simply skipped, never treated as a fatal error.
func (e *Engine) loadReader(r io.Reader, source string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		e.rules = append(e.rules, Classify(line))
	}
	if err := scanner.Err(); err != nil {
		e.logger.Warn("error reading ignore file", "source", source, "error", err)
	}
}

// LoadLines appends rules parsed from an in-memory slice of pattern lines,
// applying the same blank/comment skipping as LoadFile. Useful for tests and
// for merging programmatically supplied patterns.
func (e *Engine) LoadLines(lines []string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e.rules = append(e.rules, Classify(line))
	}
}

// IsIgnored reports whether the candidate at relPath (relative to the
// snapshot root, using '/' separators) should be ignored. name is the
// candidate's basename; isDir indicates whether it is a directory.
//
// Matching scans the rule list in load order, remembering the last match's
// negation state: ignored starts false, and each matching rule sets
// ignored = !rule.Negation. Non-matching rules never change the state. The
// final value after the full scan is returned.
func (e *Engine) IsIgnored(relPath, name string, isDir bool) bool {
	ignored := false
	for _, r := range e.rules {
		if r.Matches(relPath, name, isDir) {
			ignored = !r.Negation
		}
	}
	return ignored
}

// RuleCount returns the number of rules currently loaded, useful for
// diagnostics.
func (e *Engine) RuleCount() int {
	return len(e.rules)
}
