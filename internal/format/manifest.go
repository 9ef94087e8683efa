// Package format renders a walked tree into the manifest and diff-file
// text formats spec.md §4.6 describes: a human/LLM-readable prelude,
// instructions block, directory tree, and file content blocks, plus a
// companion diff file covering only what changed between two snapshots.
package format

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dircontxt/dctx/internal/differ"
	"github.com/dircontxt/dctx/internal/model"
)

const instructions = `This file is a single-document snapshot of a directory tree, generated for` + "\n" +
	`consumption by a large language model. The DIRECTORY_TREE section lists` + "\n" +
	`every file and directory with a stable ID, modification timestamp, and` + "\n" +
	`(for files) size in bytes. Each file's content follows in its own` + "\n" +
	`FILE_CONTENT block, delimited by START/END markers carrying the same ID.` + "\n" +
	`Binary files are represented by a placeholder rather than raw bytes.`

// BuildManifest renders tree (rooted at root on disk) into the full
// manifest text described in spec.md §4.6, using versionToken as the
// snapshot's version line.
func BuildManifest(tree *model.Node, root, versionToken string) (string, error) {
	ids := AssignIDs(tree)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[DIRCONTXT_LLM_SNAPSHOT_%s]\n", versionToken)
	buf.WriteString("<INSTRUCTIONS>\n")
	buf.WriteString(instructions)
	buf.WriteString("\n</INSTRUCTIONS>\n")

	buf.WriteString("<DIRECTORY_TREE>\n")
	writeTreeLine(&buf, tree, ids, root)
	buf.WriteString("</DIRECTORY_TREE>\n")

	total, err := writeContentBlocks(&buf, tree, root, ids, nil)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&buf, "<TOTAL_TOKENS>%d</TOTAL_TOKENS>\n", total)

	return buf.String(), nil
}

// BuildDiff renders the companion diff file described in spec.md §4.6:
// a change summary followed by the new tree and content blocks for only
// the added/modified files.
func BuildDiff(report *differ.Report, newTree *model.Node, newRoot, oldVersion, newVersion string) (string, error) {
	ids := AssignIDs(newTree)

	var buf bytes.Buffer
	buf.WriteString("[DIRCONTXT_LLM_DIFF_V1]\n")
	fmt.Fprintf(&buf, "Version Change: %s -> %s\n", oldVersion, newVersion)

	buf.WriteString("<CHANGES_SUMMARY>\n")
	for _, e := range report.Entries {
		suffix := ""
		if e.IsDir {
			suffix = "/"
		}
		fmt.Fprintf(&buf, "[%s] %s%s\n", e.Kind.String(), e.Path, suffix)
	}
	buf.WriteString("</CHANGES_SUMMARY>\n")

	buf.WriteString("<UPDATED_DIRECTORY_TREE>\n")
	writeTreeLine(&buf, newTree, ids, newRoot)
	buf.WriteString("</UPDATED_DIRECTORY_TREE>\n")

	include := make(map[string]bool, len(report.Entries))
	for _, e := range report.Entries {
		if e.Kind == differ.Added || e.Kind == differ.Modified {
			include[e.Path] = true
		}
	}
	if _, err := writeContentBlocks(&buf, newTree, newRoot, ids, include); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func writeTreeLine(buf *bytes.Buffer, n *model.Node, ids *IDs, root string) {
	path := n.Path
	if path == "" {
		path = "."
	}

	if n.IsDir() {
		fmt.Fprintf(buf, "[D] %s (ID:%s, MOD:%d)\n", path, ids.Of(n), n.ModTime)
		for _, c := range n.Children {
			writeTreeLine(buf, c, ids, root)
		}
		return
	}

	hint := ""
	if hasBinaryExtension(n.Path) {
		hint = ", CONTENT:BINARY_HINT"
	}

	tokens := 0
	if content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(n.Path))); err == nil && !IsBinary(n.Path, content) {
		tokens = CountTokens(string(content))
	}

	fmt.Fprintf(buf, "[F] %s (ID:%s, MOD:%d, SIZE:%d%s, TOKENS:%d)\n", path, ids.Of(n), n.ModTime, n.Size, hint, tokens)
}

func hasBinaryExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// writeContentBlocks emits a FILE_CONTENT_START/END block for every file in
// n's subtree and returns the running token total across them. When only
// is non-nil, paths absent from it are skipped (used by BuildDiff to limit
// content to added/modified files). A file that can no longer be read is
// logged and skipped rather than failing the whole manifest, per spec.md
// §7's IO error handling (logged, entry skipped, run continues).
func writeContentBlocks(buf *bytes.Buffer, n *model.Node, root string, ids *IDs, only map[string]bool) (int, error) {
	logger := slog.Default().With("component", "format")
	total := 0
	model.Walk(n, func(node *model.Node) {
		if node.IsDir() {
			return
		}
		if only != nil && !only[node.Path] {
			return
		}

		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(node.Path)))
		if err != nil {
			logger.Warn("failed to read file content, skipping content block", "path", node.Path, "error", err)
			return
		}

		id := ids.Of(node)
		binary := IsBinary(node.Path, content)
		tokens := 0
		if !binary {
			tokens = CountTokens(string(content))
			total += tokens
		}

		fmt.Fprintf(buf, "<FILE_CONTENT_START ID=%q PATH=%q TOKENS=\"%d\">\n", id, node.Path, tokens)
		if binary {
			fmt.Fprintf(buf, "[BINARY CONTENT PLACEHOLDER - Size: %d bytes]\n", len(content))
		} else {
			buf.Write(content)
			if len(content) == 0 || content[len(content)-1] != '\n' {
				buf.WriteByte('\n')
			}
		}
		fmt.Fprintf(buf, "</FILE_CONTENT_END ID=%q>\n", id)
	})
	return total, nil
}
