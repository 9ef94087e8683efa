package snapshot

import (
	"github.com/dircontxt/dctx/internal/pathutil"
)

// Paths holds the on-disk locations of a snapshot's artifacts, all
// sharing the target directory's basename and written into its parent
// (spec.md §3's "Snapshot artifacts on disk").
type Paths struct {
	Archive  string
	Manifest string
	Diff     string // empty until a version token is known
}

func computePaths(root, version string) Paths {
	base := pathutil.Basename(root)
	parent := pathutil.Dirname(root)

	p := Paths{
		Archive:  pathutil.Join(parent, base+".dircontxt"),
		Manifest: pathutil.Join(parent, base+".llmcontext.txt"),
	}
	if version != "" {
		p.Diff = pathutil.Join(parent, base+".llmcontext-"+version+"-diff.txt")
	}
	return p
}
