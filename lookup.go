package bt

import (
	"github.com/ccnkit/bt/internal/mon"
	"github.com/ccnkit/bt/node"
)

var lookupThunk mon.Thunk // timing info for Lookup

// Lookup descends from the root (node id 1) to the leaf that may hold
// key. The result is encoded as for node.Search: 2*index + found. The
// returned leaf handle is ephemeral; refetch by id after any operation
// that can touch the resident table.
//
// Descent is left-biased: the key of entry j in an internal node is
// the first key of the subtree rooted at entry j's child, so a hit
// follows the matching entry and a miss follows the entry before the
// insertion point (clamped to 0).
func (t *T) Lookup(key []byte) (int, *node.T, error) {
	timer := lookupThunk.Start()
	defer timer.Stop()

	t.live()
	n, err := t.GetNode(1)
	if err != nil {
		return -1, nil, err
	}
	if n.Corrupt != 0 {
		return -1, nil, Error.New("root corrupt (tag %d)", n.Corrupt)
	}

	level := n.Level()
	res, err := n.Search(key)
	if err != nil {
		return -1, nil, Error.Wrap(err)
	}
	for level > 0 {
		// On a miss the child is behind the insertion point; on a hit
		// the entry itself roots the subtree that starts with key.
		entdx := node.Index(res)
		if !node.Found(res) {
			entdx--
		}
		if entdx < 0 {
			entdx = 0
		}
		childID, err := n.ChildID(entdx)
		if err != nil {
			return -1, nil, Error.Wrap(err)
		}
		child, err := t.GetNode(childID)
		if err != nil {
			return -1, nil, err
		}
		if newlevel := child.Level(); newlevel != level-1 {
			t.Errors++
			n.Corrupt = node.TagChildLevel
			return -1, nil, Error.New("node %d: child %d at level %d, want %d",
				n.ID, childID, newlevel, level-1)
		}
		child.Parent = n.ID

		n = child
		level--
		res, err = n.Search(key)
		if err != nil {
			return -1, nil, Error.Wrap(err)
		}
	}
	return res, n, nil
}
