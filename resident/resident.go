// Package resident is the tree's cache of loaded nodes: a hash table
// from node id to node handle with a finalization hook that runs when
// an entry is evicted or the table is destroyed.
package resident

import (
	"github.com/cespare/xxhash"

	"github.com/ccnkit/bt/node"
)

const initialBuckets = 64

type entry struct {
	id   uint32
	n    *node.T
	pins int
	next *entry
}

// Table maps node ids to resident node handles. It is not thread safe.
type Table struct {
	finalize func(*node.T)
	buckets  []*entry
	count    int
}

// New returns an empty table. finalize runs once per entry as it
// leaves the table; nil disables finalization.
func New(finalize func(*node.T)) *Table {
	return &Table{
		finalize: finalize,
		buckets:  make([]*entry, initialBuckets),
	}
}

func hash(id uint32) uint64 {
	var key [4]byte
	key[0] = byte(id >> 24)
	key[1] = byte(id >> 16)
	key[2] = byte(id >> 8)
	key[3] = byte(id)
	return xxhash.Sum64(key[:])
}

func (t *Table) slot(id uint32) int {
	return int(hash(id) & uint64(len(t.buckets)-1))
}

func (t *Table) find(id uint32) *entry {
	for e := t.buckets[t.slot(id)]; e != nil; e = e.next {
		if e.id == id {
			return e
		}
	}
	return nil
}

// Seek returns the node for id, creating a fresh handle if none is
// resident. created reports whether this call created it.
func (t *Table) Seek(id uint32) (n *node.T, created bool) {
	if e := t.find(id); e != nil {
		return e.n, false
	}

	if t.count >= len(t.buckets)*3/4 {
		t.grow()
	}
	e := &entry{id: id, n: &node.T{ID: id}}
	s := t.slot(id)
	e.next = t.buckets[s]
	t.buckets[s] = e
	t.count++
	return e.n, true
}

// Lookup returns the resident node for id without creating one.
func (t *Table) Lookup(id uint32) *node.T {
	if e := t.find(id); e != nil {
		return e.n
	}
	return nil
}

// Pin marks the node as borrowed; a pinned node cannot be evicted.
func (t *Table) Pin(id uint32) {
	if e := t.find(id); e != nil {
		e.pins++
	}
}

// Unpin releases one borrow of the node.
func (t *Table) Unpin(id uint32) {
	if e := t.find(id); e != nil && e.pins > 0 {
		e.pins--
	}
}

// Evict removes the node for id, running the finalizer. It refuses to
// evict a pinned node and reports whether the entry was removed.
func (t *Table) Evict(id uint32) bool {
	s := t.slot(id)
	for pe := &t.buckets[s]; *pe != nil; pe = &(*pe).next {
		e := *pe
		if e.id != id {
			continue
		}
		if e.pins > 0 {
			return false
		}
		*pe = e.next
		t.count--
		if t.finalize != nil {
			t.finalize(e.n)
		}
		return true
	}
	return false
}

// Len returns the number of resident nodes.
func (t *Table) Len() int { return t.count }

// IDs returns the resident node ids, in no particular order.
func (t *Table) IDs() []uint32 {
	ids := make([]uint32, 0, t.count)
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// Iter calls fn for every resident node until it returns false.
func (t *Table) Iter(fn func(*node.T) bool) {
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			if !fn(e.n) {
				return
			}
		}
	}
}

// Destroy finalizes every entry, pinned or not, and empties the table.
func (t *Table) Destroy() {
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			if t.finalize != nil {
				t.finalize(e.n)
			}
		}
	}
	t.buckets = make([]*entry, initialBuckets)
	t.count = 0
}

func (t *Table) grow() {
	old := t.buckets
	t.buckets = make([]*entry, len(old)*2)
	for _, e := range old {
		for e != nil {
			next := e.next
			s := t.slot(e.id)
			e.next = t.buckets[s]
			t.buckets[s] = e
			e = next
		}
	}
}
