package bt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zeebo/assert"

	"github.com/ccnkit/bt/io/disk"
	"github.com/ccnkit/bt/io/level"
	"github.com/ccnkit/bt/io/mem"
	"github.com/ccnkit/bt/node"
)

func TestLookupEmpty(t *testing.T) {
	tr := New(nil)

	res, leaf, err := tr.Lookup([]byte("foo"))
	assert.NoError(t, err)
	assert.Equal(t, res, node.EncRes(0, false))
	assert.NotNil(t, leaf)
	assert.NoError(t, tr.Destroy())
}

func TestSingleInsert(t *testing.T) {
	tr := New(mem.New())

	assert.NoError(t, tr.Insert([]byte("apple"), payload4(1)))

	res, leaf, err := tr.Lookup([]byte("apple"))
	assert.NoError(t, err)
	assert.Equal(t, res, node.EncRes(0, true))

	p, err := leaf.GetEntry(8, node.Index(res))
	assert.NoError(t, err)
	assert.Equal(t, p[3], byte(1))

	res, _, err = tr.Lookup([]byte("banana"))
	assert.NoError(t, err)
	assert.Equal(t, res, node.EncRes(1, false))

	assert.NoError(t, tr.Destroy())
}

func TestSortedFill(t *testing.T) {
	tr := New(nil)

	for i, key := range []string{"a", "b", "c", "d", "e"} {
		assert.NoError(t, tr.Insert([]byte(key), payload4(uint32(i))))
	}

	root, err := tr.GetNode(1)
	assert.NoError(t, err)
	assert.Equal(t, root.Nent(), 5)

	saved, err := root.Check(false)
	assert.NoError(t, err)
	assert.Equal(t, saved, 0)

	for i, key := range []string{"a", "b", "c", "d", "e"} {
		res, _, err := tr.Lookup([]byte(key))
		assert.NoError(t, err)
		assert.Equal(t, res, node.EncRes(i, true))
	}
	assert.NoError(t, tr.Destroy())
}

func TestDuplicateInsert(t *testing.T) {
	tr := New(nil)
	assert.NoError(t, tr.Insert([]byte("dup"), payload4(1)))
	assert.Error(t, tr.Insert([]byte("dup"), payload4(2)))
	assert.NoError(t, tr.Destroy())
}

func TestRootSplit(t *testing.T) {
	tr := New(mem.New())
	tr.Full = 3

	for i, key := range []string{"01", "02", "03", "04"} {
		assert.NoError(t, tr.Insert([]byte(key), payload4(uint32(i))))
	}

	// The root keeps id 1, one level up, with links to the halves.
	root, err := tr.GetNode(1)
	assert.NoError(t, err)
	assert.Equal(t, root.Level(), 1)
	assert.Equal(t, root.Nent(), 2)
	assert.Equal(t, root.Nodetype(), byte('R'))

	left, err := root.ChildID(0)
	assert.NoError(t, err)
	right, err := root.ChildID(1)
	assert.NoError(t, err)
	assert.That(t, left != right)

	ln, err := tr.GetNode(left)
	assert.NoError(t, err)
	rn, err := tr.GetNode(right)
	assert.NoError(t, err)
	assert.Equal(t, ln.Level(), 0)
	assert.Equal(t, rn.Level(), 0)
	assert.Equal(t, ln.Nent(), 2)
	assert.Equal(t, rn.Nent(), 2)

	var key []byte
	for i, want := range []string{"01", "02"} {
		key, err = ln.KeyFetch(key, i)
		assert.NoError(t, err)
		assert.Equal(t, string(key), want)
	}
	for i, want := range []string{"03", "04"} {
		key, err = rn.KeyFetch(key, i)
		assert.NoError(t, err)
		assert.Equal(t, string(key), want)
	}

	for _, k := range []string{"01", "02", "03", "04"} {
		res, _, err := tr.Lookup([]byte(k))
		assert.NoError(t, err)
		assert.That(t, node.Found(res))
	}
	assert.NoError(t, tr.CheckTree())
	assert.NoError(t, tr.Destroy())
}

func TestDeepSplits(t *testing.T) {
	tr := New(mem.New())
	tr.Full = 2

	keys := keyseq(64)
	for i, key := range keys {
		assert.NoError(t, tr.Insert(key, payload4(uint32(i))))
	}

	// The root id never changes, no matter how many splits ran.
	root, err := tr.GetNode(1)
	assert.NoError(t, err)
	assert.Equal(t, root.ID, uint32(1))
	assert.That(t, root.Level() > 1)

	for _, key := range keys {
		res, _, err := tr.Lookup(key)
		assert.NoError(t, err)
		assert.That(t, node.Found(res))
	}
	assert.NoError(t, tr.CheckTree())
	assert.Equal(t, tr.Errors, 0)
	assert.NoError(t, tr.Destroy())
}

func TestCorruptionDetection(t *testing.T) {
	tr := New(nil)
	for i, key := range []string{"a", "b", "c", "d"} {
		assert.NoError(t, tr.Insert([]byte(key), payload4(uint32(i))))
	}

	root, err := tr.GetNode(1)
	assert.NoError(t, err)
	trl, err := root.SeekTrailer(2)
	assert.NoError(t, err)
	trl.SetEntdx(0)

	_, err = root.SeekTrailer(2)
	assert.Error(t, err)
	assert.That(t, root.Corrupt != 0)

	res, _, err := tr.Lookup([]byte("a"))
	assert.Error(t, err)
	assert.Equal(t, res, -1)

	tr.Destroy() // errors recorded are fine here
}

func TestLease(t *testing.T) {
	tr := New(mem.New())
	assert.NoError(t, tr.Insert([]byte("pin"), payload4(1)))

	le, err := tr.Acquire(1)
	assert.NoError(t, err)
	assert.That(t, !le.Zero())
	assert.Equal(t, le.ID(), uint32(1))
	assert.Equal(t, le.Node().ID, uint32(1))

	// A pinned node survives a flush; everything else is evicted.
	assert.NoError(t, tr.Flush())
	assert.NotNil(t, tr.Rnode(1))

	le.Close()
	assert.That(t, le.Zero())

	assert.NoError(t, tr.Flush())
	assert.Nil(t, tr.Rnode(1))

	// The page reloads from the backend on next use.
	res, _, err := tr.Lookup([]byte("pin"))
	assert.NoError(t, err)
	assert.That(t, node.Found(res))
	assert.NoError(t, tr.Destroy())
}

func roundTrip(t *testing.T, open func() *T) {
	keys := keyseq(100)

	tr := open()
	for i, key := range keys {
		assert.NoError(t, tr.Insert(key, payload4(uint32(i))))
	}
	assert.NoError(t, tr.Destroy())

	tr = open()
	for _, key := range keys {
		res, _, err := tr.Lookup(key)
		assert.NoError(t, err)
		assert.That(t, node.Found(res))
	}

	// Inserting into the reopened tree must not clobber existing
	// pages when issuing fresh node ids.
	assert.NoError(t, tr.Insert([]byte("zzzzz"), payload4(999)))
	for _, key := range keys {
		res, _, err := tr.Lookup(key)
		assert.NoError(t, err)
		assert.That(t, node.Found(res))
	}
	assert.NoError(t, tr.Destroy())
}

func TestBackendRoundTrip(t *testing.T) {
	t.Run("Mem", func(t *testing.T) {
		backend := mem.New()
		roundTrip(t, func() *T { return New(backend) })
	})

	t.Run("Disk", func(t *testing.T) {
		dir := t.TempDir()
		roundTrip(t, func() *T {
			backend, err := disk.New(dir, nil)
			assert.NoError(t, err)
			return New(backend)
		})
	})

	t.Run("Level", func(t *testing.T) {
		dir := t.TempDir()
		roundTrip(t, func() *T {
			backend, err := level.Open(dir)
			assert.NoError(t, err)
			return New(backend)
		})
	})
}

func TestMissedSplit(t *testing.T) {
	tr := New(nil)
	tr.Full = 100

	for i := 0; i < 10; i++ {
		assert.NoError(t, tr.Insert([]byte(fmt.Sprintf("%02d", i)), payload4(uint32(i))))
	}
	tr.Full = 3

	root, err := tr.GetNode(1)
	assert.NoError(t, err)
	assert.NoError(t, tr.Split(root))

	root, err = tr.GetNode(1)
	assert.NoError(t, err)
	left, err := root.ChildID(0)
	assert.NoError(t, err)
	right, err := root.ChildID(1)
	assert.NoError(t, err)

	ln, err := tr.GetNode(left)
	assert.NoError(t, err)
	assert.NoError(t, tr.Split(ln))

	// A split that overflows the parent while another node is flagged
	// displaces that flag into MissedSplit rather than dropping it.
	tr.NextSplit = 77
	rn, err := tr.GetNode(right)
	assert.NoError(t, err)
	assert.NoError(t, tr.Split(rn))
	assert.Equal(t, tr.NextSplit, uint32(1))
	assert.Equal(t, tr.MissedSplit, uint32(77))

	// The driver works both flags off on the next insert.
	assert.NoError(t, tr.Insert([]byte("000"), payload4(100)))
	assert.Equal(t, tr.NextSplit, uint32(0))
	assert.Equal(t, tr.MissedSplit, uint32(0))

	for i := 0; i < 10; i++ {
		res, _, err := tr.Lookup([]byte(fmt.Sprintf("%02d", i)))
		assert.NoError(t, err)
		assert.That(t, node.Found(res))
	}
	res, _, err := tr.Lookup([]byte("000"))
	assert.NoError(t, err)
	assert.That(t, node.Found(res))

	assert.NoError(t, tr.CheckTree())
	assert.Equal(t, tr.Errors, 0)
	assert.NoError(t, tr.Destroy())
}

func TestDestroyLiveThenNil(t *testing.T) {
	tr := New(nil)
	assert.NoError(t, tr.Destroy())

	var dead *T
	assert.NoError(t, dead.Destroy())
}

func TestRnode(t *testing.T) {
	tr := New(nil)
	assert.Nil(t, tr.Rnode(1))
	_, err := tr.GetNode(1)
	assert.NoError(t, err)
	assert.NotNil(t, tr.Rnode(1))
	assert.NoError(t, tr.Destroy())
}

func TestPickyCheck(t *testing.T) {
	tr := New(nil)
	assert.NoError(t, tr.Insert([]byte("k"), payload4(1)))
	root, err := tr.GetNode(1)
	assert.NoError(t, err)
	_, err = root.Check(true)
	assert.That(t, errors.Is(err, node.ErrPicky))
	assert.NoError(t, tr.Destroy())
}
