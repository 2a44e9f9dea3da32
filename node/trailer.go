package node

import "github.com/ccnkit/bt/internal/pack"

// TrailerSize is the size of an entry trailer in bytes.
const TrailerSize = (0 +
	2 + // entdx
	1 + // entsz
	1 + // level
	4 + // koff0
	2 + // ksiz0
	4 + // koff1
	2) // ksiz1

// Trailer is a view over one entry trailer. It aliases the node buffer
// (or scratch space, for a trailer under construction), so it is only
// valid as long as the underlying buffer is.
type Trailer struct {
	b []byte
}

// NewTrailer returns a zeroed scratch trailer not backed by any node.
func NewTrailer() Trailer {
	return Trailer{b: make([]byte, TrailerSize)}
}

// Bytes returns the raw trailer bytes.
func (t Trailer) Bytes() []byte { return t.b }

func (t Trailer) Entdx() int  { return int(pack.Fetch(t.b[0:2])) }
func (t Trailer) Entsz() int  { return int(pack.Fetch(t.b[2:3])) }
func (t Trailer) Level() int  { return int(pack.Fetch(t.b[3:4])) }
func (t Trailer) Koff0() int  { return int(pack.Fetch(t.b[4:8])) }
func (t Trailer) Ksiz0() int  { return int(pack.Fetch(t.b[8:10])) }
func (t Trailer) Koff1() int  { return int(pack.Fetch(t.b[10:14])) }
func (t Trailer) Ksiz1() int  { return int(pack.Fetch(t.b[14:16])) }

func (t Trailer) SetEntdx(v int) { pack.Store(t.b[0:2], uint32(v)) }
func (t Trailer) SetEntsz(v int) { pack.Store(t.b[2:3], uint32(v)) }
func (t Trailer) SetLevel(v int) { pack.Store(t.b[3:4], uint32(v)) }
func (t Trailer) SetKoff0(v int) { pack.Store(t.b[4:8], uint32(v)) }
func (t Trailer) SetKsiz0(v int) { pack.Store(t.b[8:10], uint32(v)) }
func (t Trailer) SetKoff1(v int) { pack.Store(t.b[10:14], uint32(v)) }
func (t Trailer) SetKsiz1(v int) { pack.Store(t.b[14:16], uint32(v)) }

// lastTrailer views the trailer at the very end of the buffer. The
// caller must have checked len(buf) >= minNodeBytes.
func lastTrailer(buf []byte) Trailer {
	return Trailer{b: buf[len(buf)-TrailerSize:]}
}

// seekTrailer locates the trailer of entry i and returns its offset in
// the buffer. It sets the corruption tag if a structural problem with
// the node is discovered.
func (n *T) seekTrailer(i int) (int, error) {
	if n.Corrupt != 0 {
		return 0, Error.New("node %d corrupt (tag %d)", n.ID, n.Corrupt)
	}
	if len(n.Buf) < minNodeBytes {
		return 0, ErrNoEntry
	}

	last := lastTrailer(n.Buf)
	lastdx := last.Entdx()
	ent := last.Entsz() * SizeUnits
	if ent < TrailerSize {
		return 0, n.fail(TagEntrySize)
	}
	if ent*(lastdx+1) >= len(n.Buf) {
		return 0, n.fail(TagEntryOverflow)
	}
	if i < 0 || i > lastdx {
		return 0, ErrNoEntry
	}

	off := len(n.Buf) - ent*(lastdx-i) - TrailerSize
	t := Trailer{b: n.Buf[off : off+TrailerSize]}
	if t.Entdx() != i {
		return 0, n.fail(TagEntryIndex)
	}
	return off, nil
}

// SeekTrailer returns a validated view of entry i's trailer. It returns
// ErrNoEntry if i is past the last entry; any other failure marks the
// node corrupt.
func (n *T) SeekTrailer(i int) (Trailer, error) {
	off, err := n.seekTrailer(i)
	if err != nil {
		return Trailer{}, err
	}
	return Trailer{b: n.Buf[off : off+TrailerSize]}, nil
}

// GetEntry returns the payload bytes of entry i. payloadBytes must be
// the node's common padded payload size; a mismatch with the stored
// entry size is a caller error and does not mark the node corrupt.
func (n *T) GetEntry(payloadBytes, i int) ([]byte, error) {
	entryBytes := payloadBytes + TrailerSize
	off, err := n.seekTrailer(i)
	if err != nil {
		return nil, err
	}
	t := Trailer{b: n.Buf[off : off+TrailerSize]}
	if t.Entsz()*SizeUnits != entryBytes {
		return nil, Error.New("node %d: payload size %d does not match entries", n.ID, payloadBytes)
	}
	return n.Buf[off-payloadBytes : off], nil
}
