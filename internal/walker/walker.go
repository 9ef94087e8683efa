// Package walker implements the single-threaded, synchronous depth-first
// traversal described in spec.md §4.2: it reads each directory's children,
// classifies and prunes ignored entries, follows symlinks (guarding against
// loops), and builds the in-memory tree the rest of the pipeline operates
// on.
package walker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dircontxt/dctx/internal/archive"
	"github.com/dircontxt/dctx/internal/ignore"
	"github.com/dircontxt/dctx/internal/model"
	"github.com/dircontxt/dctx/internal/pathutil"
)

// Walker traverses a directory tree and builds a model.Node tree from it.
type Walker struct {
	logger *slog.Logger
}

// New constructs a Walker.
func New() *Walker {
	return &Walker{logger: slog.Default().With("component", "walker")}
}

// Walk traverses root, applying engine's ignore rules, and returns the
// resulting tree. Per spec.md §4.2, the walker fails only when the root
// itself cannot be opened/stat'd or is not a directory; every other error
// (an unreadable subdirectory, a stat failure on one entry) is logged and
// the offending entry is skipped, and the walk continues.
func (w *Walker) Walk(root string, engine *ignore.Engine) (*model.Node, error) {
	absRoot, err := pathutil.ResolveRoot(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", absRoot, err)
	}

	rootNode := model.NewRoot(uint64(rootInfo.ModTime().Unix()))

	canonicalRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		canonicalRoot = absRoot
	}
	guard := newAncestorGuard(canonicalRoot)

	if err := w.walkDir(absRoot, absRoot, rootNode, engine, guard); err != nil {
		return nil, err
	}

	return rootNode, nil
}

// walkDir populates parent.Children with every accepted entry found in
// absDir (the absolute path corresponding to parent), recursing into
// accepted subdirectories.
func (w *Walker) walkDir(absRoot, absDir string, parent *model.Node, engine *ignore.Engine, guard *ancestorGuard) error {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		w.logger.Warn("cannot read directory, skipping", "path", absDir, "error", err)
		return nil
	}

	// Deterministic order: the walker's own discovery order becomes the
	// archive's and manifest's order, so entries are sorted by name before
	// being visited.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		absPath := filepath.Join(absDir, name)
		relPath, err := filepath.Rel(absRoot, absPath)
		if err != nil {
			w.logger.Warn("cannot compute relative path, skipping", "path", absPath, "error", err)
			continue
		}
		relPath = filepath.ToSlash(relPath)
		if len(relPath) > archive.MaxPathLength {
			w.logger.Warn("path exceeds maximum archive path length, skipping", "path", relPath, "length", len(relPath))
			continue
		}

		node, canonicalDir, skip, err := w.classify(absPath, relPath, entry, engine, guard)
		if err != nil {
			w.logger.Warn("skipping entry", "path", relPath, "error", err)
			continue
		}
		if skip {
			continue
		}

		parent.AddChild(node)

		if node.IsDir() {
			guard.push(canonicalDir)
			err := w.walkDir(absRoot, absPath, node, engine, guard)
			guard.pop()
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// classify stats the entry (following any symlink), consults the ignore
// engine, and returns the constructed node (or skip=true if the entry is
// pruned). For directory entries it also returns the entry's canonical
// (symlink-resolved) absolute path; the caller pushes this onto guard's
// ancestor stack before recursing so a deeper symlink that loops back to
// this same directory is detected instead of recursed into forever.
func (w *Walker) classify(absPath, relPath string, entry os.DirEntry, engine *ignore.Engine, guard *ancestorGuard) (node *model.Node, canonicalDir string, skip bool, err error) {
	info, statErr := os.Stat(absPath)
	if statErr != nil {
		if entry.Type()&os.ModeSymlink != 0 && os.IsNotExist(statErr) {
			return nil, "", true, fmt.Errorf("dangling symlink %s: %w", absPath, statErr)
		}
		return nil, "", true, fmt.Errorf("stat %s: %w", absPath, statErr)
	}

	isDir := info.IsDir()
	if !isDir && !info.Mode().IsRegular() {
		// Non-regular, non-directory entries (devices, sockets, ...) are
		// silently dropped per spec.md §4.2.
		return nil, "", true, nil
	}

	if engine.IsIgnored(relPath, entry.Name(), isDir) {
		return nil, "", true, nil
	}

	mtime := uint64(info.ModTime().Unix())
	if !isDir {
		return model.NewFile(relPath, mtime, uint64(info.Size())), "", false, nil
	}

	canonical, evalErr := filepath.EvalSymlinks(absPath)
	if evalErr != nil {
		w.logger.Warn("cannot resolve directory path, skipping", "path", absPath, "error", evalErr)
		return nil, "", true, nil
	}
	if guard.loop(canonical) {
		w.logger.Debug("symlink loop, skipping", "path", relPath)
		return nil, "", true, nil
	}

	return model.NewDirectory(relPath, mtime), canonical, false, nil
}
