package format

import (
	"fmt"

	"github.com/dircontxt/dctx/internal/model"
)

// IDs maps every non-root node in a tree to its manifest identifier. The
// root itself is always "ROOT"; every other node shares one monotonic
// counter assigned in pre-order, so the first node encountered after the
// root is numbered 001 regardless of whether it is a file or a directory.
type IDs struct {
	byNode map[*model.Node]string
}

// AssignIDs walks tree in pre-order and assigns manifest IDs, storing each
// one both in the returned IDs and on the node's ID field.
func AssignIDs(tree *model.Node) *IDs {
	ids := &IDs{byNode: make(map[*model.Node]string)}
	counter := 0
	model.Walk(tree, func(n *model.Node) {
		if n.Path == "" {
			ids.byNode[n] = "ROOT"
			n.ID = "ROOT"
			return
		}
		counter++
		prefix := "F"
		if n.IsDir() {
			prefix = "D"
		}
		ids.byNode[n] = fmt.Sprintf("%s%03d", prefix, counter)
		n.ID = ids.byNode[n]
	})
	return ids
}

// Of returns the manifest ID assigned to n.
func (ids *IDs) Of(n *model.Node) string {
	return ids.byNode[n]
}
