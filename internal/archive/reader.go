package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dircontxt/dctx/internal/model"
)

// Reader provides random-access reads into an already-parsed archive's
// data section, per spec.md §4.4.
type Reader struct {
	path      string
	dataStart int64
}

// DataStart returns the byte offset where the archive's data section
// begins, i.e. the offset every node's ContentOffset is relative to.
func (r *Reader) DataStart() int64 {
	return r.dataStart
}

// ReadContent reads exactly n.Size bytes of n's content from the archive,
// starting at DataStart()+n.ContentOffset. The seek and read are performed
// on a dedicated file handle opened and closed within this call, so
// concurrent extractions never race on a shared cursor.
func (r *Reader) ReadContent(n *model.Node) ([]byte, error) {
	if n.IsDir() {
		return nil, fmt.Errorf("archive: %q is a directory, has no content", n.Path)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", r.path, err)
	}
	defer f.Close()

	offset := r.dataStart + int64(n.ContentOffset)
	buf := make([]byte, n.Size)
	if n.Size == 0 {
		return buf, nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to content for %s: %w", n.Path, err)
	}
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%w: reading content for %s: %v", ErrShortRead, n.Path, err)
	}

	return buf, nil
}

// Read opens the archive at path, verifies its signature, and parses its
// header into a reconstructed tree. It returns the tree and a Reader bound
// to path for subsequent random-access content reads, per spec.md §4.4.
func Read(path string) (*model.Node, *Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer f.Close()

	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(f, sig); err != nil {
		return nil, nil, fmt.Errorf("%w: reading signature: %v", ErrBadSignature, err)
	}
	if string(sig) != Signature {
		return nil, nil, fmt.Errorf("%w: got %q", ErrBadSignature, sig)
	}

	counted := &countingReader{r: f}
	root, err := readNode(counted)
	if err != nil {
		return nil, nil, err
	}

	dataStart := int64(len(Signature)) + counted.n

	return root, &Reader{path: path, dataStart: dataStart}, nil
}

// readNode parses one node record (and, for a directory, its declared
// number of child records, recursively) from r.
func readNode(r io.Reader) (*model.Node, error) {
	var nodeType uint8
	if err := readByte(r, &nodeType); err != nil {
		return nil, err
	}
	if nodeType != typeFile && nodeType != typeDirectory {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNodeType, nodeType)
	}

	var pathLen uint16
	if err := binary.Read(r, binary.LittleEndian, &pathLen); err != nil {
		return nil, fmt.Errorf("%w: reading path length: %v", ErrShortRead, err)
	}
	if int(pathLen) > MaxPathLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrPathTooLong, pathLen)
	}

	pathBytes := make([]byte, pathLen)
	if _, err := io.ReadFull(r, pathBytes); err != nil {
		return nil, fmt.Errorf("%w: reading path: %v", ErrShortRead, err)
	}

	var modTime uint64
	if err := binary.Read(r, binary.LittleEndian, &modTime); err != nil {
		return nil, fmt.Errorf("%w: reading timestamp: %v", ErrShortRead, err)
	}

	node := &model.Node{Path: string(pathBytes), ModTime: modTime}

	if nodeType == typeDirectory {
		node.Type = model.NodeDirectory
		var childCount uint32
		if err := binary.Read(r, binary.LittleEndian, &childCount); err != nil {
			return nil, fmt.Errorf("%w: reading child count: %v", ErrShortRead, err)
		}
		node.Children = make([]*model.Node, 0, childCount)
		for i := uint32(0); i < childCount; i++ {
			child, err := readNode(r)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil
	}

	node.Type = model.NodeFile
	if err := binary.Read(r, binary.LittleEndian, &node.ContentOffset); err != nil {
		return nil, fmt.Errorf("%w: reading content offset: %v", ErrShortRead, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &node.Size); err != nil {
		return nil, fmt.Errorf("%w: reading content size: %v", ErrShortRead, err)
	}

	return node, nil
}

func readByte(r io.Reader, b *uint8) error {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	*b = buf[0]
	return nil
}

// countingReader wraps an io.Reader and tracks the total number of bytes
// successfully read through it, so the caller can compute where the header
// stream ended (and the data section begins) without a second pass.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
