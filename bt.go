// Package bt implements an on-disk B-tree mapping variable-length byte
// keys to fixed-size payload records. Internal nodes route lookups by
// child node id; leaf nodes hold the application payload. Nodes are
// self-describing byte-packed pages that live in a resident table and
// persist through a pluggable io.Backend.
//
// A tree is single-writer: all operations on one handle must happen in
// one logical thread of control.
package bt

import (
	"github.com/zeebo/errs"

	"github.com/ccnkit/bt/internal/debug"
	btio "github.com/ccnkit/bt/io"
	"github.com/ccnkit/bt/lease"
	"github.com/ccnkit/bt/node"
	"github.com/ccnkit/bt/resident"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("bt")

// T is a B-tree handle. It owns the resident-node table and the
// backend; destroying it flushes and closes every node.
type T struct {
	magic      uint32
	resident   *resident.Table
	io         btio.Backend
	nextNodeID uint32

	// Errors counts structural and backend failures over the life of
	// the handle.
	Errors int

	// Full is the entry count past which a node should be split.
	// Entry sizes are not bounded against page size, so splits
	// trigger purely on entry count.
	Full int

	// NextSplit and MissedSplit hold node ids flagged for deferred
	// splitting.
	NextSplit   uint32
	MissedSplit uint32
}

// New returns a tree over the given backend. A nil backend keeps the
// tree memory-only. The root always has node id 1; fresh ids are
// issued from 2 up.
func New(backend btio.Backend) *T {
	t := &T{
		magic:      node.Magic,
		io:         backend,
		nextNodeID: 2,
		Full:       20,
	}
	t.resident = resident.New(t.finalizeNode)
	return t
}

// live traps on a dead or clobbered handle. A magic violation here
// means use-after-destroy of the handle itself.
func (t *T) live() {
	debug.Assert("btree handle magic", func() bool { return t.magic == node.Magic })
}

// finalizeNode runs as a node leaves the resident table: open nodes
// are written back unless corrupt, then closed and their buffer
// released.
func (t *T) finalizeNode(n *node.T) {
	t.live()
	if n.IO == nil || t.io == nil {
		return
	}

	failed := n.Corrupt != 0
	if !failed {
		failed = t.io.Write(n) != nil
	}
	n.Clean = len(n.Buf)
	if t.io.Close(n) != nil {
		failed = true
	}
	n.Buf = nil
	if failed {
		t.Errors++
	}
}

// GetNode returns the node for id, creating or reading it if
// necessary. A node read back empty is freshly allocated and must be
// initialized before use.
//
// The handle becomes invalid when the node leaves the resident table;
// do not store it in long-lived structures (see Acquire).
func (t *T) GetNode(id uint32) (*node.T, error) {
	t.live()
	n, created := t.resident.Seek(id)
	if !created || t.io == nil {
		return n, nil
	}

	if err := t.io.Open(n); err != nil {
		t.Errors++
		n.Corrupt = node.TagOpen
		return n, Error.Wrap(err)
	}
	if err := t.io.Read(n, node.MaxBytes); err != nil {
		t.Errors++
		return n, Error.Wrap(err)
	}
	n.Clean = len(n.Buf)
	if _, err := n.Check(false); err != nil {
		t.Errors++
	}
	return n, nil
}

// newNode issues a fresh node id and returns its (empty) node. Ids are
// issued monotonically; over a reopened backend, ids whose pages hold
// persisted content are skipped.
func (t *T) newNode() (*node.T, error) {
	for {
		n, err := t.GetNode(t.nextNodeID)
		t.nextNodeID++
		if err != nil {
			return nil, err
		}
		if len(n.Buf) == 0 {
			return n, nil
		}
	}
}

// Rnode returns the node for id only if it is already resident.
func (t *T) Rnode(id uint32) *node.T {
	t.live()
	return t.resident.Lookup(id)
}

// Acquire returns a lease on the node for id. The node stays pinned in
// the resident table until the lease is closed, so the handle cannot be
// invalidated by eviction in the meantime.
func (t *T) Acquire(id uint32) (lease.T, error) {
	n, err := t.GetNode(id)
	if err != nil {
		return lease.T{}, err
	}
	return lease.New(t.resident, n, id), nil
}

// Flush evicts every unpinned resident node, writing non-corrupt ones
// back.
func (t *T) Flush() error {
	t.live()
	before := t.Errors
	for _, id := range t.resident.IDs() {
		t.resident.Evict(id)
	}
	if t.Errors != before {
		return Error.New("%d nodes failed to flush", t.Errors-before)
	}
	return nil
}

// Destroy shuts the tree down cleanly: every resident node is
// finalized and the backend is destroyed. The handle is dead
// afterwards.
func (t *T) Destroy() error {
	if t == nil {
		return nil
	}
	t.live()
	t.resident.Destroy()
	t.magic = 0

	var err error
	if t.Errors != 0 {
		err = Error.New("%d errors recorded", t.Errors)
	}
	if t.io != nil {
		err = errs.Combine(err, t.io.Destroy())
	}
	return err
}

// CheckTree runs the consistency checker over every resident node.
func (t *T) CheckTree() error {
	t.live()
	var bad []uint32
	t.resident.Iter(func(n *node.T) bool {
		if _, err := n.Check(false); err != nil {
			bad = append(bad, n.ID)
		}
		return true
	})
	if len(bad) != 0 {
		return Error.New("corrupt nodes: %v", bad)
	}
	return nil
}
