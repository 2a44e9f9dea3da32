// Package disk is a file backend keeping one page file per node under
// a directory. Every page is sealed with a keyed highwayhash-64
// checksum so torn or tampered pages are detected on read instead of
// being handed to the engine.
package disk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/highwayhash"
	"github.com/zeebo/errs"

	"github.com/ccnkit/bt/internal/pack"
	"github.com/ccnkit/bt/node"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("disk")

// sealSize is the checksum prefix on every page file.
const sealSize = 8

// Backend stores sealed pages as files in a directory.
type Backend struct {
	dir string
	key [32]byte
}

// New returns a backend rooted at dir, creating it if needed. key
// seeds the page checksums and must be the same for every open of the
// same directory; nil selects the zero key.
func New(dir string, key []byte) (*Backend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, Error.Wrap(err)
	}
	b := &Backend{dir: dir}
	if key != nil {
		if len(key) != len(b.key) {
			return nil, Error.New("checksum key must be %d bytes", len(b.key))
		}
		copy(b.key[:], key)
	}
	return b, nil
}

type handle struct {
	path string
}

func (b *Backend) path(id uint32) string {
	return filepath.Join(b.dir, fmt.Sprintf("%08x.pg", id))
}

// Open associates the node with its page file.
func (b *Backend) Open(n *node.T) error {
	n.IO = &handle{path: b.path(n.ID)}
	return nil
}

// Read loads and verifies the page file. A missing file reads back as
// an empty buffer.
func (b *Backend) Read(n *node.T, max int) error {
	h, ok := n.IO.(*handle)
	if !ok {
		return Error.New("node %d not open", n.ID)
	}
	raw, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		n.Buf = n.Buf[:0]
		return nil
	}
	if err != nil {
		return Error.Wrap(err)
	}
	if len(raw) < sealSize {
		return Error.New("node %d: page file too small", n.ID)
	}
	page := raw[sealSize:]
	sum := highwayhash.Sum64(page, b.key[:])
	if uint32(sum>>32) != pack.Fetch(raw[0:4]) || uint32(sum) != pack.Fetch(raw[4:8]) {
		return Error.New("node %d: page checksum mismatch", n.ID)
	}
	if len(page) > max {
		page = page[:max]
	}
	n.Buf = append(n.Buf[:0], page...)
	return nil
}

// Write seals the buffer and replaces the page file.
func (b *Backend) Write(n *node.T) error {
	h, ok := n.IO.(*handle)
	if !ok {
		return Error.New("node %d not open", n.ID)
	}
	raw := make([]byte, sealSize+len(n.Buf))
	copy(raw[sealSize:], n.Buf)
	sum := highwayhash.Sum64(raw[sealSize:], b.key[:])
	pack.Store(raw[0:4], uint32(sum>>32))
	pack.Store(raw[4:8], uint32(sum))
	return Error.Wrap(os.WriteFile(h.path, raw, 0644))
}

// Close releases the node's handle. The file stays on disk.
func (b *Backend) Close(n *node.T) error {
	n.IO = nil
	return nil
}

// Destroy releases the backend. Page files persist for a later open.
func (b *Backend) Destroy() error { return nil }
