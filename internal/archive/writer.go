package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dircontxt/dctx/internal/model"
)

// Write serializes tree (rooted at root on disk, for resolving file
// content) to outPath using the two-pass design in spec.md §4.3:
//
//  1. Data collection: pre-order traversal copying each file's bytes into
//     a temporary data stream, recording content_offset/content_size on
//     each node as it goes.
//  2. Header serialization: pre-order traversal writing each (now
//     annotated) node's metadata record into a temporary header stream.
//
// The output file is only created once both streams are fully built, and
// is removed if assembly fails partway through, so a failed write never
// leaves a corrupt partial archive at outPath.
func Write(tree *model.Node, root, outPath string) error {
	logger := slog.Default().With("component", "archive-writer")

	dataBuf := &bytes.Buffer{}
	collectData(tree, root, dataBuf, logger)

	headerBuf := &bytes.Buffer{}
	if err := writeHeader(headerBuf, tree); err != nil {
		return fmt.Errorf("serializing archive header: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", outPath, err)
	}

	if err := assemble(out, headerBuf, dataBuf); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("writing archive %s: %w", outPath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("closing archive %s: %w", outPath, err)
	}

	return nil
}

// assemble writes the signature, then the header stream, then the data
// stream, to out, in that order (spec.md §6's on-disk layout).
func assemble(out *os.File, headerBuf, dataBuf *bytes.Buffer) error {
	if _, err := out.WriteString(Signature); err != nil {
		return err
	}
	if _, err := headerBuf.WriteTo(out); err != nil {
		return err
	}
	if _, err := dataBuf.WriteTo(out); err != nil {
		return err
	}
	return nil
}

// collectData performs pass 1: pre-order traversal copying each file's
// bytes into dataBuf and annotating Node.ContentOffset/Node.Size as it
// goes. Directories contribute nothing to the data stream. A file that
// cannot be opened is retained with Size reset to 0 and a logged warning,
// per spec.md §4.3.
func collectData(tree *model.Node, root string, dataBuf *bytes.Buffer, logger *slog.Logger) {
	var running uint64

	model.Walk(tree, func(n *model.Node) {
		if n.IsDir() {
			return
		}

		n.ContentOffset = running

		srcPath := filepath.Join(root, filepath.FromSlash(n.Path))
		data, err := os.ReadFile(srcPath)
		if err != nil {
			logger.Warn("cannot read source file, archiving empty content", "path", n.Path, "error", err)
			n.Size = 0
			return
		}

		written, _ := dataBuf.Write(data)
		n.Size = uint64(written)
		running += uint64(written)
	})
}

// writeHeader performs pass 2: pre-order traversal writing each node's
// metadata record to buf, per the layout table in spec.md §4.3.
func writeHeader(buf *bytes.Buffer, tree *model.Node) error {
	var walkErr error
	model.Walk(tree, func(n *model.Node) {
		if walkErr != nil {
			return
		}
		walkErr = writeNodeRecord(buf, n)
	})
	return walkErr
}

// writeNodeRecord writes a single node's header record: node_type,
// path_length, path bytes, last_modified_timestamp, then the per-type
// body (file: content_offset+content_size; directory: child_count).
func writeNodeRecord(buf *bytes.Buffer, n *model.Node) error {
	pathBytes := []byte(n.Path)
	if len(pathBytes) > MaxPathLength {
		return fmt.Errorf("%w: %q (%d bytes)", ErrPathTooLong, n.Path, len(pathBytes))
	}

	nodeType := uint8(typeFile)
	if n.IsDir() {
		nodeType = typeDirectory
	}
	buf.WriteByte(nodeType)

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(pathBytes))); err != nil {
		return err
	}
	buf.Write(pathBytes)

	if err := binary.Write(buf, binary.LittleEndian, n.ModTime); err != nil {
		return err
	}

	if n.IsDir() {
		return binary.Write(buf, binary.LittleEndian, uint32(len(n.Children)))
	}

	if err := binary.Write(buf, binary.LittleEndian, n.ContentOffset); err != nil {
		return err
	}
	return binary.Write(buf, binary.LittleEndian, n.Size)
}
