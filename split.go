package bt

import (
	"github.com/ccnkit/bt/internal/debug"
	"github.com/ccnkit/bt/internal/mon"
	"github.com/ccnkit/bt/node"
)

// growALevel adds a level to the tree ahead of a root split. The root
// keeps id 1: its content moves into a node with a fresh id, and the
// root is re-initialized one level up as a singleton pointing at it.
// Returns the node now holding the old root content.
func (t *T) growALevel(n *node.T) (*node.T, error) {
	level := n.Level()
	if level < 0 {
		return nil, Error.New("root level unreadable")
	}

	child, err := t.newNode()
	if err != nil {
		return nil, err
	}

	child.Clean = 0
	n.Clean = 0
	child.Buf, n.Buf = n.Buf, child.Buf
	child.Freelow = n.Freelow

	if err := n.Init(level+1, 'R', 0); err != nil {
		return nil, Error.Wrap(err)
	}
	if _, err := n.InsertEntry(0, nil, node.Link(child.ID)); err != nil {
		return nil, Error.Wrap(err)
	}
	child.Parent = n.ID
	return child, nil
}

var splitThunk mon.Thunk // timing info for Split

// Split divides a full node in two, promoting the separator key (the
// first key of the right half, unabbreviated) into the parent. If the
// parent in turn exceeds Full, its id is flagged in NextSplit for the
// caller to re-enter. Splitting the root grows the tree by one level
// first.
//
// The commit (transplanting the left half's buffer into the original
// node) happens last, so most failures leave the tree no worse than
// before.
func (t *T) Split(n *node.T) error {
	timer := splitThunk.Start()
	defer timer.Stop()

	t.live()
	nent := n.Nent()
	if nent < 2 {
		return Error.New("node %d: too few entries to split", n.ID)
	}

	if n.ID == 1 {
		var err error
		n, err = t.growALevel(n)
		if err != nil {
			t.Errors++
			return err
		}
		debug.Assert("grew a level", func() bool {
			return n.ID != 1 && n.Parent == 1 && n.Nent() == nent
		})
	}

	parent, err := t.GetNode(n.Parent)
	if err != nil {
		t.Errors++
		return err
	}
	if parent.Nent() < 1 {
		t.Errors++
		n.Corrupt = node.TagNoParent
		return Error.New("node %d: no usable parent", n.ID)
	}
	if parent.PayloadSize() != node.LinkSize {
		t.Errors++
		n.Corrupt = node.TagNoParent
		return Error.New("node %d: parent %d does not hold links", n.ID, parent.ID)
	}
	pb := n.PayloadSize()

	// Two nodes take the split-up content. The first is temporary; its
	// buffer replaces the original node's on commit. The second is
	// created fresh with the next id.
	tmp := &node.T{ID: n.ID}
	sib, err := t.newNode()
	if err != nil {
		t.Errors++
		return err
	}
	halves := [2]*node.T{tmp, sib}
	for k := range halves {
		if halves[k].Nent() != 0 {
			t.Errors++
			return Error.New("node %d: split workspace not empty", halves[k].ID)
		}
		if err := halves[k].Init(n.Level(), 0, 0); err != nil {
			t.Errors++
			return Error.Wrap(err)
		}
		halves[k].Parent = n.Parent
	}

	// Distribute the entries; insertion order preserves sorted order.
	var key []byte
	for i := 0; i < nent; i++ {
		k, j := 0, i
		if i >= nent/2 {
			k, j = 1, i-nent/2
		}
		key, err = n.KeyFetch(key, i)
		if err != nil {
			t.Errors++
			return Error.Wrap(err)
		}
		payload, err := n.GetEntry(pb, i)
		if err != nil {
			t.Errors++
			return Error.Wrap(err)
		}
		if _, err := halves[k].InsertEntry(j, key, payload); err != nil {
			t.Errors++
			return Error.Wrap(err)
		}
	}

	// Link the new node into the parent under the separator key.
	key, err = sib.KeyFetch(key, 0)
	if err != nil {
		t.Errors++
		return Error.Wrap(err)
	}
	res, err := parent.Search(key)
	if err != nil {
		t.Errors++
		return Error.Wrap(err)
	}
	if node.Found(res) {
		t.Errors++
		return Error.New("node %d: separator already present in parent %d", n.ID, parent.ID)
	}
	i := node.Index(res)
	cid, err := parent.ChildID(i - 1)
	if err != nil || cid != tmp.ID {
		t.Errors++
		n.Corrupt = node.TagParentLink
		parent.Corrupt = node.TagParentLink
		return Error.New("node %d: parent %d entry %d does not link back", n.ID, parent.ID, i-1)
	}

	// In good shape to commit the changes.
	if t.NextSplit == n.ID {
		t.NextSplit = 0
	}
	cnt, err := parent.InsertEntry(i, key, node.Link(sib.ID))
	if err != nil {
		t.Errors++
		parent.Corrupt = node.TagParentLink
		return Error.Wrap(err)
	}
	if cnt > t.Full {
		t.MissedSplit = t.NextSplit
		t.NextSplit = parent.ID
	}

	n.Clean = 0
	n.Buf = tmp.Buf
	if _, err := n.Check(false); err != nil {
		t.Errors++
		return Error.Wrap(err)
	}
	return nil
}
