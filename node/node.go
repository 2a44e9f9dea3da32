// Package node implements the self-describing byte-packed pages of the
// B-tree engine. A node buffer starts with a fixed header, carries a
// string pool of key bytes growing toward the tail, and ends with the
// entries: fixed-size payload slots, each followed by a trailer, packed
// in index order at the very end of the buffer.
package node

import (
	"github.com/zeebo/errs"

	"github.com/ccnkit/bt/internal/pack"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("node")

// ErrNoEntry is returned when an entry index is past the last entry.
// It does not indicate corruption.
var ErrNoEntry = errs.New("no such entry")

const (
	// Magic tags every node header and the tree handle.
	Magic = 0x53ade78

	// Version is the node format version.
	Version = 1

	// SizeUnits is the on-disk alignment granularity. Entry sizes and
	// the extension size are expressed in these units.
	SizeUnits = 8

	// MaxBytes caps how much of a node a backend read may return.
	MaxBytes = 1 << 20
)

const headerSize = (0 +
	4 + // magic
	2 + // version
	1 + // nodetype
	1 + // level
	1 + // extsz
	7) // pad to a SizeUnits boundary

// minNodeBytes is the smallest a non-empty node can be.
const minNodeBytes = headerSize + TrailerSize

// Corruption tags. A nonzero node.Corrupt names the check that tripped;
// it is sticky and fatal for further operations on the node.
const (
	TagEntrySize     = 1 + iota // trailer entsz smaller than the trailer itself, or differing between entries
	TagEntryOverflow            // entries do not fit behind the header
	TagEntryIndex               // trailer entdx does not match its position
	TagKeyRange                 // key fragment offset or length out of bounds
	TagHeader                   // header short, bad magic, or bad version
	TagExtension                // extension area extends past the buffer
	TagLevel                    // trailer level does not match the header level
	TagChildMagic               // internal payload magic mismatch
	TagChildLevel               // child level is not parent level - 1
	TagNoParent                 // split attempted without a usable parent
	TagParentLink               // parent entry does not link back to the split node
	TagOpen                     // backend open failed
)

// T is one page of the tree. Handles are ephemeral references: a node
// becomes invalid when it is evicted from the resident table, so store
// node ids in long-lived structures and refetch, never the handle.
type T struct {
	ID      uint32 // node id, unique within the tree; the root is always 1
	Buf     []byte // the packed page
	Parent  uint32 // parent node id; a hint only, revalidated on descent
	Clean   int    // buffer prefix [0, Clean) matches the persisted copy
	Freelow int    // next free offset in the string pool; 0 means unknown
	Corrupt int    // 0 healthy, else the corruption tag that tripped
	IO      any    // opaque backend handle, owned by the backend
}

// fail marks the node corrupt with the given tag and returns the error
// to propagate.
func (n *T) fail(tag int) error {
	n.Corrupt = tag
	return Error.New("node %d corrupt (tag %d)", n.ID, tag)
}

// Init writes a fresh header into the node, discarding any previous
// content. The caller is responsible for being sure the node does not
// hold anything useful.
func (n *T) Init(level int, nodetype byte, extsz int) error {
	if n.Corrupt != 0 {
		return Error.New("node %d corrupt (tag %d)", n.ID, n.Corrupt)
	}

	bytes := headerSize + extsz*SizeUnits
	n.Clean = 0
	n.Freelow = 0
	n.Buf = append(n.Buf[:0], make([]byte, bytes)...)

	pack.Store(n.Buf[0:4], Magic)
	pack.Store(n.Buf[4:6], Version)
	n.Buf[6] = nodetype
	n.Buf[7] = byte(level)
	n.Buf[8] = byte(extsz)
	return nil
}

// Nent returns the number of entries in the node, or -1 for error.
func (n *T) Nent() int {
	if n.Corrupt != 0 {
		return -1
	}
	if len(n.Buf) < minNodeBytes {
		return 0
	}
	last := lastTrailer(n.Buf)
	return last.Entdx() + 1
}

// EntrySize returns the size in bytes of entries within the node,
// including the trailer. If there are no entries it returns 0, and -1
// for error.
func (n *T) EntrySize() int {
	if n.Corrupt != 0 {
		return -1
	}
	if len(n.Buf) < minNodeBytes {
		return 0
	}
	last := lastTrailer(n.Buf)
	return last.Entsz() * SizeUnits
}

// PayloadSize returns the size in bytes of payloads within the node,
// including padding to a SizeUnits boundary but not the trailer.
func (n *T) PayloadSize() int {
	size := n.EntrySize()
	if size >= TrailerSize {
		size -= TrailerSize
	}
	return size
}

// Level returns the node level, or -1 for error. Leaves are at level 0.
func (n *T) Level() int {
	if n.Corrupt != 0 || len(n.Buf) < headerSize {
		return -1
	}
	return int(n.Buf[7])
}

// Nodetype returns the ascii node type tag from the header.
func (n *T) Nodetype() byte {
	if n.Corrupt != 0 || len(n.Buf) < headerSize {
		return 0
	}
	return n.Buf[6]
}

// extsz returns the extension unit count from the header.
func (n *T) extsz() int { return int(n.Buf[8]) }
