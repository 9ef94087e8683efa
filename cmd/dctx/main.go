// Command dctx snapshots a directory into a versioned, diff-aware archive
// and text manifest intended for consumption by a large language model.
package main

import (
	"os"

	"github.com/dircontxt/dctx/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
