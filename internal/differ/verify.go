package differ

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"github.com/dircontxt/dctx/internal/archive"
)

// VerifyContent implements spec.md §4.5's content verification pass: for
// every Modified file entry where OldNode.Size == NewNode.Size, the new
// file's bytes on disk are compared against the prior archive's recorded
// bytes for that node. If they are identical, the entry is dropped — this
// is what catches a "touch" that only changed mtime. Entries whose sizes
// differ are always kept without a comparison.
//
// oldReader must be bound to the prior archive (still on disk, read before
// it gets overwritten — see spec.md §9 on step ordering). newRoot is the
// snapshot root on disk, used to read each candidate's current bytes.
func VerifyContent(r *Report, oldReader *archive.Reader, newRoot string) error {
	logger := slog.Default().With("component", "differ")

	survivors := r.Entries[:0]
	for _, e := range r.Entries {
		if e.Kind != Modified || e.IsDir || e.OldNode.Size != e.NewNode.Size {
			survivors = append(survivors, e)
			continue
		}

		identical, err := contentsIdentical(e, oldReader, newRoot)
		if err != nil {
			logger.Warn("content verification failed, keeping modified entry",
				"path", e.Path, "error", err)
			survivors = append(survivors, e)
			continue
		}

		if identical {
			logger.Debug("suppressing metadata-only change", "path", e.Path)
			continue
		}
		survivors = append(survivors, e)
	}

	r.Entries = survivors
	r.HasChanges = len(r.Entries) > 0
	return nil
}

// contentsIdentical reads the new file's current bytes and the old
// archive's recorded bytes for the same node and reports whether they are
// byte-for-byte equal. A cheap xxh3 fingerprint is computed over both
// buffers first as a fast-reject: a mismatch there proves inequality
// without needing a second comparison, but an xxh3 match is never treated
// as proof of equality on its own -- bytes.Equal always runs too.
func contentsIdentical(e Entry, oldReader *archive.Reader, newRoot string) (bool, error) {
	oldContent, err := oldReader.ReadContent(e.OldNode)
	if err != nil {
		return false, fmt.Errorf("reading prior content for %s: %w", e.Path, err)
	}

	newPath := filepath.Join(newRoot, filepath.FromSlash(e.Path))
	newContent, err := os.ReadFile(newPath)
	if err != nil {
		return false, fmt.Errorf("reading current content for %s: %w", e.Path, err)
	}

	if xxh3.Hash(oldContent) != xxh3.Hash(newContent) {
		return false, nil
	}

	return bytes.Equal(oldContent, newContent), nil
}
