// Package lease provides borrow-scoped node handles. A node handle is
// only valid while the node is resident; taking a lease pins the node
// in the resident table so eviction cannot invalidate the handle until
// the lease is closed.
package lease

import (
	"github.com/ccnkit/bt/node"
	"github.com/ccnkit/bt/resident"
)

// T is a lease on a resident node. The zero value is a valid, empty
// lease. Leases are not reference counted among themselves: each New
// takes its own pin and each Close releases exactly one.
type T struct {
	n   *node.T
	id  uint32
	tab *resident.Table
}

// New pins id in the table and returns a lease holding the node. The
// pin is dropped by Close.
func New(tab *resident.Table, n *node.T, id uint32) T {
	tab.Pin(id)
	return T{n: n, id: id, tab: tab}
}

// Zero returns if the lease is the zero value.
func (t T) Zero() bool { return t.tab == nil }

// Node returns the leased node.
func (t T) Node() *node.T { return t.n }

// ID returns the node id the lease was acquired with.
func (t T) ID() uint32 { return t.id }

// Close drops the pin and clears the lease to the zero value. Closing
// a zero lease is a no-op.
func (t *T) Close() {
	if t.tab != nil {
		t.tab.Unpin(t.id)
	}
	*t = T{}
}
