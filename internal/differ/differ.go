// Package differ implements the structural tree comparison plus content
// verification pass described in spec.md §4.5: two trees are walked in
// parallel, children paired by relative path, and every added, removed, or
// modified entry is reported — with metadata-only false positives on files
// suppressed by a follow-up byte-level comparison against the prior
// archive.
package differ

import (
	"sort"

	"github.com/dircontxt/dctx/internal/model"
)

// Kind classifies a diff entry.
type Kind int

const (
	// Added marks an entry present in the new tree but not the old one.
	Added Kind = iota
	// Removed marks an entry present in the old tree but not the new one.
	Removed
	// Modified marks an entry present in both trees whose type or
	// (for files) size/mtime differs.
	Modified
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "ADDED"
	case Removed:
		return "REMOVED"
	case Modified:
		return "MODIFIED"
	default:
		return "UNKNOWN"
	}
}

// Entry is one surviving diff record.
type Entry struct {
	Kind Kind
	Path string
	IsDir bool

	// OldNode is the node as it appeared in the old tree (nil for Added).
	OldNode *model.Node
	// NewNode is the node as it appears in the new tree (nil for
	// Removed).
	NewNode *model.Node
}

// Report is the result of a tree comparison.
type Report struct {
	HasChanges bool
	Entries    []Entry
}

// Diff performs the structural comparison pass (spec.md §4.5) between
// oldTree and newTree. It does not perform content verification; call
// VerifyContent on the result to suppress metadata-only false positives on
// files.
func Diff(oldTree, newTree *model.Node) *Report {
	r := &Report{}
	diffChildren(oldTree, newTree, r)
	r.HasChanges = len(r.Entries) > 0
	return r
}

// diffChildren pairs old's and new's children by path and appends entries
// to r, recursing into type-equal directory pairs.
func diffChildren(old, new *model.Node, r *Report) {
	oldByPath := childMap(old)
	newByPath := childMap(new)

	for _, path := range sortedUnion(oldByPath, newByPath) {
		oldChild, inOld := oldByPath[path]
		newChild, inNew := newByPath[path]

		switch {
		case inNew && !inOld:
			reportAdded(newChild, r)
		case inOld && !inNew:
			reportRemoved(oldChild, r)
		default:
			comparePair(oldChild, newChild, r)
		}
	}
}

func comparePair(old, new *model.Node, r *Report) {
	if old.IsDir() != new.IsDir() {
		r.Entries = append(r.Entries, Entry{
			Kind: Modified, Path: new.Path, IsDir: new.IsDir(),
			OldNode: old, NewNode: new,
		})
		return
	}

	if new.IsDir() {
		diffChildren(old, new, r)
		return
	}

	if old.Size != new.Size || old.ModTime != new.ModTime {
		r.Entries = append(r.Entries, Entry{
			Kind: Modified, Path: new.Path, IsDir: false,
			OldNode: old, NewNode: new,
		})
	}
}

func reportAdded(n *model.Node, r *Report) {
	r.Entries = append(r.Entries, Entry{Kind: Added, Path: n.Path, IsDir: n.IsDir(), NewNode: n})
	for _, c := range n.Children {
		reportAdded(c, r)
	}
}

func reportRemoved(n *model.Node, r *Report) {
	r.Entries = append(r.Entries, Entry{Kind: Removed, Path: n.Path, IsDir: n.IsDir(), OldNode: n})
	for _, c := range n.Children {
		reportRemoved(c, r)
	}
}

func childMap(n *model.Node) map[string]*model.Node {
	m := make(map[string]*model.Node, len(n.Children))
	for _, c := range n.Children {
		m[c.Path] = c
	}
	return m
}

func sortedUnion(a, b map[string]*model.Node) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for k := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
