package bt

import (
	"github.com/ccnkit/bt/internal/mon"
	"github.com/ccnkit/bt/node"
)

var insertThunk mon.Thunk // timing info for Insert

// Insert associates a fixed-size payload record with key. Every
// payload in a leaf must share one size; the first insert into a leaf
// fixes it. Keys are unique — inserting a present key is an error.
//
// Splits run after the insert: any node flagged past Full is split,
// and splits that overflow a parent re-enter until the tree settles.
func (t *T) Insert(key, payload []byte) error {
	timer := insertThunk.Start()
	defer timer.Stop()

	t.live()
	root, err := t.GetNode(1)
	if err != nil {
		return err
	}
	if len(root.Buf) == 0 {
		// Freshly allocated tree; the root starts as a leaf.
		if err := root.Init(0, 'L', 0); err != nil {
			return Error.Wrap(err)
		}
	}

	res, leaf, err := t.Lookup(key)
	if err != nil {
		return err
	}
	if node.Found(res) {
		return Error.New("duplicate key")
	}
	if _, err := leaf.InsertEntry(node.Index(res), key, payload); err != nil {
		return Error.Wrap(err)
	}
	if leaf.Nent() > t.Full && t.NextSplit != leaf.ID {
		if t.NextSplit != 0 {
			t.MissedSplit = t.NextSplit
		}
		t.NextSplit = leaf.ID
	}

	// NextSplit stays set while its split runs: Split clears it on
	// commit, and a cascade that flags the parent displaces any other
	// pending id into MissedSplit instead of dropping it.
	for t.NextSplit != 0 || t.MissedSplit != 0 {
		id := t.NextSplit
		fromNext := id != 0
		if !fromNext {
			id, t.MissedSplit = t.MissedSplit, 0
		}
		n, err := t.GetNode(id)
		if err != nil {
			return err
		}
		if n.Nent() <= t.Full {
			// already settled; drop the stale flag
			if fromNext {
				t.NextSplit = 0
			}
			continue
		}
		if n.ID != 1 {
			// Parent hints are only trustworthy right after a
			// descent; refresh them along this node's path before
			// splitting.
			fkey, err := n.KeyFetch(nil, 0)
			if err != nil {
				return Error.Wrap(err)
			}
			if _, _, err := t.Lookup(fkey); err != nil {
				return err
			}
		} else if t.NextSplit == 1 {
			// Splitting the root moves its content under a fresh
			// id; the flag does not follow it.
			t.NextSplit = 0
		}
		if err := t.Split(n); err != nil {
			return err
		}
	}
	return nil
}
