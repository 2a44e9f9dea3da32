// Package lru is an LRU page cache for an io.Backend that implements
// the same interface. Reads that hit serve a copied page without
// touching the inner backend; writes go through and refresh the cached
// copy. It is not thread safe.
package lru

import (
	"container/list"

	btio "github.com/ccnkit/bt/io"
	"github.com/ccnkit/bt/node"
)

// T wraps an io.Backend with an LRU cache of page buffers.
type T struct {
	capacity int
	inner    btio.Backend
	order    *list.List
	pages    map[uint32]*list.Element
}

type page struct {
	id  uint32
	buf []byte
}

// New returns a cache holding up to capacity pages in front of inner.
func New(capacity int, inner btio.Backend) *T {
	return &T{
		capacity: capacity,
		inner:    inner,
		order:    list.New(),
		pages:    make(map[uint32]*list.Element),
	}
}

func (t *T) store(id uint32, buf []byte) {
	if el, ok := t.pages[id]; ok {
		el.Value.(*page).buf = append(el.Value.(*page).buf[:0], buf...)
		t.order.MoveToFront(el)
		return
	}
	t.pages[id] = t.order.PushFront(&page{id: id, buf: append([]byte(nil), buf...)})
	for t.order.Len() > t.capacity {
		el := t.order.Back()
		t.order.Remove(el)
		delete(t.pages, el.Value.(*page).id)
	}
}

// Open opens the node on the inner backend.
func (t *T) Open(n *node.T) error { return t.inner.Open(n) }

// Read serves the page from the cache when possible, falling back to
// the inner backend and remembering the result.
func (t *T) Read(n *node.T, max int) error {
	if el, ok := t.pages[n.ID]; ok {
		t.order.MoveToFront(el)
		buf := el.Value.(*page).buf
		if len(buf) > max {
			buf = buf[:max]
		}
		n.Buf = append(n.Buf[:0], buf...)
		return nil
	}
	if err := t.inner.Read(n, max); err != nil {
		return err
	}
	t.store(n.ID, n.Buf)
	return nil
}

// Write writes through to the inner backend and refreshes the cached
// copy.
func (t *T) Write(n *node.T) error {
	if err := t.inner.Write(n); err != nil {
		return err
	}
	t.store(n.ID, n.Buf)
	return nil
}

// Close closes the node on the inner backend.
func (t *T) Close(n *node.T) error { return t.inner.Close(n) }

// Destroy drops the cache and destroys the inner backend.
func (t *T) Destroy() error {
	t.order.Init()
	t.pages = make(map[uint32]*list.Element)
	return t.inner.Destroy()
}
