// Package mem is a trivial in-memory backend. Pages survive tree
// destruction, so a new tree can be created over the same backend.
package mem

import (
	"github.com/zeebo/errs"

	"github.com/ccnkit/bt/node"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("mem")

// Backend stores pages in a map keyed by node id.
type Backend struct {
	pages map[uint32][]byte
}

// New returns an empty in-memory backend.
func New() *Backend {
	return &Backend{pages: make(map[uint32][]byte)}
}

type handle struct {
	id uint32
}

// Open associates the node with its page slot.
func (b *Backend) Open(n *node.T) error {
	n.IO = &handle{id: n.ID}
	return nil
}

// Read copies the stored page into the node buffer, truncated to max.
func (b *Backend) Read(n *node.T, max int) error {
	if _, ok := n.IO.(*handle); !ok {
		return Error.New("node %d not open", n.ID)
	}
	page := b.pages[n.ID]
	if len(page) > max {
		page = page[:max]
	}
	n.Buf = append(n.Buf[:0], page...)
	return nil
}

// Write stores a copy of the node buffer.
func (b *Backend) Write(n *node.T) error {
	if _, ok := n.IO.(*handle); !ok {
		return Error.New("node %d not open", n.ID)
	}
	b.pages[n.ID] = append([]byte(nil), n.Buf...)
	return nil
}

// Close releases the node's handle.
func (b *Backend) Close(n *node.T) error {
	n.IO = nil
	return nil
}

// Destroy is a no-op; the pages stay available so another tree can be
// opened over the backend.
func (b *Backend) Destroy() error { return nil }

// Len returns how many pages have been written.
func (b *Backend) Len() int { return len(b.pages) }
