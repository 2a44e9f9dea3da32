package node

import "github.com/ccnkit/bt/internal/pack"

// InternalMagic tags the payload of every internal-node entry.
const InternalMagic = 0x4c696e6b // "Link"

// LinkSize is the size of an internal-node payload: magic plus the
// child node id.
const LinkSize = 4 + 4

// Link builds an internal-node payload referencing child.
func Link(child uint32) []byte {
	b := make([]byte, LinkSize)
	pack.Store(b[0:4], InternalMagic)
	pack.Store(b[4:8], child)
	return b
}

// ChildID returns the child node id held in entry i of an internal
// node. A payload without the internal magic marks the node corrupt.
func (n *T) ChildID(i int) (uint32, error) {
	p, err := n.GetEntry(LinkSize, i)
	if err != nil {
		return 0, err
	}
	if pack.Fetch(p[0:4]) != InternalMagic {
		return 0, n.fail(TagChildMagic)
	}
	return pack.Fetch(p[4:8]), nil
}
