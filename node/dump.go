package node

import (
	"fmt"
	"io"
)

// Dump writes a human-readable description of the node to w, for
// debugging damaged trees. Corrupt nodes still dump whatever can be
// read.
func Dump(w io.Writer, n *T) {
	fmt.Fprintf(w, "node %d: level=%d type=%q len=%d freelow=%d clean=%d corrupt=%d\n",
		n.ID, n.Level(), n.Nodetype(), len(n.Buf), n.Freelow, n.Clean, n.Corrupt)

	nent := n.Nent()
	var key []byte
	for i := 0; i < nent; i++ {
		key, _ = n.KeyFetch(key, i)
		if n.Level() > 0 {
			child, err := n.ChildID(i)
			if err != nil {
				fmt.Fprintf(w, "  %3d %q -> ?\n", i, key)
				continue
			}
			fmt.Fprintf(w, "  %3d %q -> node %d\n", i, key, child)
		} else {
			fmt.Fprintf(w, "  %3d %q\n", i, key)
		}
	}
}
