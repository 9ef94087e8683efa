// Package clipboard implements spec.md §9's clipboard mode: the manifest
// is generated exactly as for a normal snapshot, then handed to the
// platform clipboard instead of being written to disk as a file.
package clipboard

import (
	sysclipboard "github.com/atotto/clipboard"
)

// Write copies manifest to the system clipboard.
func Write(manifest string) error {
	return sysclipboard.WriteAll(manifest)
}
