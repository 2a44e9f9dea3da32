package node

import "github.com/ccnkit/bt/internal/mon"

// scanReusable looks for a leading portion of key that is already
// stored in the node, so the new entry could reference it through the
// second trailer fragment instead of duplicating the bytes. Not
// implemented yet; the trailer layout reserves the mechanism.
func scanReusable(key []byte, n *T, i int) (off, size int) {
	return 0, 0
}

// zero clears a byte region.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

var insertThunk mon.Thunk // timing info for InsertEntry

// InsertEntry inserts a new entry at index i, which the caller must
// have determined (typically from a Search miss). payload is padded to
// a SizeUnits boundary; if the node already has entries the padded
// payload must match their common size. Triggering a split when the
// node gets full is also the caller's responsibility.
//
// It returns the new entry count.
func (n *T) InsertEntry(i int, key, payload []byte) (int, error) {
	timer := insertThunk.Start()
	defer timer.Stop()

	if n.Freelow == 0 {
		n.Check(false)
	}
	if n.Corrupt != 0 {
		return -1, Error.New("node %d corrupt (tag %d)", n.ID, n.Corrupt)
	}

	pb := (len(payload) + SizeUnits - 1) / SizeUnits * SizeUnits
	nent := n.Nent()
	if i < 0 || i > nent {
		return -1, Error.New("node %d: insert index %d out of range", n.ID, i)
	}

	var org, k int
	if nent == 0 {
		org = len(n.Buf)
		k = pb + TrailerSize
	} else {
		// Validates that the stored entry size matches pb.
		if _, err := n.GetEntry(pb, 0); err != nil {
			return -1, err
		}
		k = n.EntrySize()
		org = len(n.Buf) - nent*k
	}

	// Build the new trailer in scratch space.
	reuseOff, reuseSize := scanReusable(key, n, i)
	t := NewTrailer()
	if reuseSize != 0 {
		t.SetKoff0(reuseOff)
		t.SetKsiz0(reuseSize)
		t.SetKoff1(n.Freelow)
		t.SetKsiz1(len(key) - reuseSize)
	} else {
		t.SetKoff0(n.Freelow)
		t.SetKsiz0(len(key))
	}
	t.SetLevel(n.Level())
	t.SetEntsz(k / SizeUnits)

	if len(key) != reuseSize && n.Clean > n.Freelow {
		n.Clean = n.Freelow
	}

	minnew := (nent+1)*k + n.Freelow + len(key) - reuseSize
	minnew = (minnew + SizeUnits - 1) / SizeUnits * SizeUnits
	pre := i * k        // bytes of entries before the new one
	post := (nent - i) * k // bytes of entries after the new one

	var slot int // offset of the new entry's payload
	if minnew <= len(n.Buf) {
		// No expansion needed; slide the leading entries down by one
		// slot to open a gap.
		to := org - k
		if n.Clean > to {
			n.Clean = to
		}
		copy(n.Buf[to:to+pre], n.Buf[org:org+pre])
		slot = to + pre
	} else {
		grow := minnew - len(n.Buf)
		n.Buf = append(n.Buf, make([]byte, grow)...)
		to := minnew - (pre + k + post)
		from := org
		if n.Clean > org {
			n.Clean = org
		}
		copy(n.Buf[to+pre+k:to+pre+k+post], n.Buf[from+pre:from+pre+post])
		copy(n.Buf[to:to+pre], n.Buf[from:from+pre])
		if to > from {
			zero(n.Buf[from:to])
		}
		slot = to + pre
	}

	// Copy in the bits of the new entry.
	zero(n.Buf[slot : slot+k])
	copy(n.Buf[slot:slot+pb], payload)
	copy(n.Buf[slot+pb:slot+k], t.Bytes())

	// Fix up the entdx in the relocated entries.
	base := len(n.Buf) - (nent+1)*k
	for j := i; j <= nent; j++ {
		tj := Trailer{b: n.Buf[base+j*k+pb : base+j*k+k]}
		tj.SetEntdx(j)
	}

	// Finally, copy the non-shared portion of the key into the pool.
	copy(n.Buf[n.Freelow:n.Freelow+len(key)-reuseSize], key[reuseSize:])
	n.Freelow += len(key) - reuseSize
	return nent + 1, nil
}
