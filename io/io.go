// Package io defines the contract between the tree and its pluggable
// backing store.
package io

import "github.com/ccnkit/bt/node"

// Backend abstracts persistent storage for nodes. A backend stores one
// page per node id, owns the opaque n.IO slot between Open and Close,
// and must not call back into tree operations.
type Backend interface {
	// Open associates the node with backing storage, populating n.IO.
	Open(n *node.T) error

	// Read loads the persisted content into n.Buf, truncated to max
	// bytes. A node that was never written reads back as an empty
	// buffer, which the engine treats as freshly allocated.
	Read(n *node.T, max int) error

	// Write persists the buffer. The tree only writes nodes that are
	// not corrupt.
	Write(n *node.T) error

	// Close releases the backing resources for this node and clears
	// n.IO.
	Close(n *node.T) error

	// Destroy tears down the backend itself.
	Destroy() error
}
