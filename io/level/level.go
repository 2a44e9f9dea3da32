// Package level is a LevelDB backend storing one record per node.
package level

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/zeebo/errs"

	"github.com/ccnkit/bt/internal/pack"
	"github.com/ccnkit/bt/node"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("level")

// Backend stores pages in a LevelDB database.
type Backend struct {
	db *leveldb.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Backend, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &Backend{db: db}, nil
}

func pageKey(id uint32) []byte {
	key := []byte("pg\x00\x00\x00\x00")
	pack.Store(key[2:6], id)
	return key
}

type handle struct {
	key []byte
}

// Open associates the node with its record key.
func (b *Backend) Open(n *node.T) error {
	n.IO = &handle{key: pageKey(n.ID)}
	return nil
}

// Read loads the record into the node buffer, truncated to max. A node
// never written reads back as an empty buffer.
func (b *Backend) Read(n *node.T, max int) error {
	h, ok := n.IO.(*handle)
	if !ok {
		return Error.New("node %d not open", n.ID)
	}
	page, err := b.db.Get(h.key, nil)
	if err == leveldb.ErrNotFound {
		n.Buf = n.Buf[:0]
		return nil
	}
	if err != nil {
		return Error.Wrap(err)
	}
	if len(page) > max {
		page = page[:max]
	}
	n.Buf = append(n.Buf[:0], page...)
	return nil
}

// Write persists the node buffer.
func (b *Backend) Write(n *node.T) error {
	h, ok := n.IO.(*handle)
	if !ok {
		return Error.New("node %d not open", n.ID)
	}
	return Error.Wrap(b.db.Put(h.key, n.Buf, nil))
}

// Close releases the node's handle.
func (b *Backend) Close(n *node.T) error {
	n.IO = nil
	return nil
}

// Destroy closes the database. The files persist for a later Open.
func (b *Backend) Destroy() error {
	return Error.Wrap(b.db.Close())
}
