package node

import (
	"github.com/zeebo/errs"

	"github.com/ccnkit/bt/internal/pack"
)

// ErrPicky is returned when picky checking is requested; inter-entry
// key order validation is not implemented yet.
var ErrPicky = errs.New("picky checking not implemented")

// Check validates the node for internal consistency: header magic and
// version, every trailer, and the key fragment ranges. On success it
// installs the recomputed Freelow and returns the previously saved
// corruption tag, so a caller can distinguish prior faults from current
// ones; an empty buffer clears Corrupt and returns 0. On failure it
// sets Corrupt and returns -1 with the error. With picky set, a node
// that passes the structural checks returns -1 and ErrPicky without
// setting Corrupt.
func (n *T) Check(picky bool) (int, error) {
	saved := n.Corrupt
	n.Corrupt = 0

	if len(n.Buf) == 0 {
		n.Freelow = 0
		return 0, nil
	}
	if len(n.Buf) < headerSize {
		return -1, n.fail(TagHeader)
	}
	if pack.Fetch(n.Buf[0:4]) != Magic {
		return -1, n.fail(TagHeader)
	}
	if pack.Fetch(n.Buf[4:6]) != Version {
		return -1, n.fail(TagHeader)
	}
	// nodetype values are not checked at present
	lev := int(n.Buf[7])

	strbase := headerSize + n.extsz()*SizeUnits
	if strbase > len(n.Buf) {
		return -1, n.fail(TagExtension)
	}
	if strbase == len(n.Buf) {
		// No entries.
		n.Freelow = strbase
		return saved, nil
	}

	var freelow, freemax, entsz int
	nent := n.Nent()
	for i := 0; i < nent; i++ {
		off, err := n.seekTrailer(i)
		if err != nil {
			return -1, err
		}
		t := Trailer{b: n.Buf[off : off+TrailerSize]}
		if i == 0 {
			freemax = off
			entsz = t.Entsz()
		}
		if t.Entsz() != entsz {
			return -1, n.fail(TagEntrySize)
		}
		if t.Level() != lev {
			return -1, n.fail(TagLevel)
		}
		frags := [2][2]int{
			{t.Koff0(), t.Ksiz0()},
			{t.Koff1(), t.Ksiz1()},
		}
		for _, f := range frags {
			koff, ksiz := f[0], f[1]
			if koff < strbase && ksiz != 0 {
				return -1, n.fail(TagKeyRange)
			}
			if koff > freemax {
				return -1, n.fail(TagKeyRange)
			}
			if ksiz > freemax-koff {
				return -1, n.fail(TagKeyRange)
			}
			if koff+ksiz > freelow {
				freelow = koff + ksiz
			}
		}
	}
	if picky {
		return -1, ErrPicky
	}

	n.Freelow = freelow
	return saved, nil
}
