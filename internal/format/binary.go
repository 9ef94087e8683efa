package format

import (
	"path/filepath"
	"strings"
)

// binaryExtensions is an allowlist of extensions that are always treated as
// binary regardless of content, covering the common families spec.md §4.6
// calls out: images, audio/video, archives, executables, object files,
// compiled bytecode, and common binary databases.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true, ".tif": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".rar": true,
	".7z": true, ".bz2": true, ".xz": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".obj": true, ".a": true,
	".class": true, ".pyc": true, ".wasm": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
	".pdf": true, ".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
}

const (
	sniffLimit           = 512
	nonPrintableRatioMax = 0.20
)

// IsBinary classifies content as binary per spec.md §4.6: an extension on
// the allowlist is always binary; otherwise the first sniffLimit bytes of
// content are inspected, and a single NUL byte or a non-printable,
// non-whitespace byte ratio above nonPrintableRatioMax marks it binary.
func IsBinary(path string, content []byte) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if binaryExtensions[ext] {
		return true
	}

	sample := content
	if len(sample) > sniffLimit {
		sample = sample[:sniffLimit]
	}
	if len(sample) == 0 {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if isPrintableOrWhitespace(b) {
			continue
		}
		nonPrintable++
	}

	return float64(nonPrintable)/float64(len(sample)) > nonPrintableRatioMax
}

func isPrintableOrWhitespace(b byte) bool {
	switch b {
	case '\t', '\n', '\r':
		return true
	}
	return b >= 0x20 && b < 0x7f
}
