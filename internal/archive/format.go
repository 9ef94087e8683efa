// Package archive implements the two-pass binary archive codec described in
// spec.md §4.3/§4.4/§6: a writer that serializes a tree plus concatenated
// file contents into the ".dircontxt" layout, and a reader that parses that
// layout back into a tree with random-access content reads.
//
// The wire format is a fixed custom byte layout (signature, then per-node
// metadata records, then concatenated file bytes); it is produced with
// encoding/binary rather than a general-purpose serialization library
// because no such library emits this exact layout (see DESIGN.md).
package archive

import "errors"

// Signature is the 8-byte ASCII marker at the start of every archive.
const Signature = "DIRCTXTV"

// MaxPathLength bounds the path_length field on read: a record claiming a
// longer path is rejected as malformed. 4096 matches the POSIX PATH_MAX
// convention spec.md §9 cites.
const MaxPathLength = 4096

// Node type tags used in the header's node_type byte.
const (
	typeFile      = 0
	typeDirectory = 1
)

// ErrBadSignature is returned when an archive's first 8 bytes do not match
// Signature.
var ErrBadSignature = errors.New("archive: bad signature")

// ErrUnknownNodeType is returned when a header record's node_type byte is
// neither 0 (file) nor 1 (directory).
var ErrUnknownNodeType = errors.New("archive: unknown node type")

// ErrPathTooLong is returned when a header record's path_length exceeds
// MaxPathLength.
var ErrPathTooLong = errors.New("archive: path length exceeds maximum")

// ErrShortRead is returned when the archive stream ends before a complete
// record could be read.
var ErrShortRead = errors.New("archive: short read")
