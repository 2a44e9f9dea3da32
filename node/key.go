package node

import "bytes"

// Keys are stored as up to two fragments inside the node buffer. The
// second fragment exists so that a prefix already present in the node
// can be reused; the current format always writes single-fragment keys
// but readers honor both.

// fragment validates one (koff, ksiz) pair against the buffer and
// returns the fragment bytes.
func (n *T) fragment(koff, ksiz int) ([]byte, error) {
	if koff > len(n.Buf) {
		return nil, n.fail(TagKeyRange)
	}
	if ksiz > len(n.Buf)-koff {
		return nil, n.fail(TagKeyRange)
	}
	return n.Buf[koff : koff+ksiz], nil
}

// KeyAppend appends the key of entry i to dst and returns the extended
// slice.
func (n *T) KeyAppend(dst []byte, i int) ([]byte, error) {
	t, err := n.SeekTrailer(i)
	if err != nil {
		return dst, err
	}
	frag, err := n.fragment(t.Koff0(), t.Ksiz0())
	if err != nil {
		return dst, err
	}
	dst = append(dst, frag...)
	frag, err = n.fragment(t.Koff1(), t.Ksiz1())
	if err != nil {
		return dst, err
	}
	return append(dst, frag...), nil
}

// KeyFetch fetches the key of entry i into dst, replacing its contents.
func (n *T) KeyFetch(dst []byte, i int) ([]byte, error) {
	return n.KeyAppend(dst[:0], i)
}

// Compare compares key against the key of entry i, lexicographically by
// unsigned byte. It returns negative, zero, or positive for less,
// equal, or greater. The stored key is never materialized: the caller's
// key is compared against fragment 0 and then, if that was a proper
// prefix, against fragment 1. A key that is a strict prefix of the
// stored key compares less.
//
// If a corrupt trailer is encountered the node is marked corrupt and a
// sentinel of -999 (or 999 for a negative index) is returned.
func (n *T) Compare(key []byte, i int) int {
	t, err := n.SeekTrailer(i)
	if err != nil {
		if i < 0 {
			return 999
		}
		return -999
	}

	frag, err := n.fragment(t.Koff0(), t.Ksiz0())
	if err != nil {
		return -999
	}
	cmplen := len(key)
	if cmplen > len(frag) {
		cmplen = len(frag)
	}
	if res := bytes.Compare(key[:cmplen], frag[:cmplen]); res != 0 {
		return res
	}
	if len(key) < len(frag) {
		return -1
	}

	// Fragment 0 is a prefix of the key; continue against fragment 1.
	key = key[cmplen:]
	frag, err = n.fragment(t.Koff1(), t.Ksiz1())
	if err != nil {
		return -999
	}
	cmplen = len(key)
	if cmplen > len(frag) {
		cmplen = len(frag)
	}
	if res := bytes.Compare(key[:cmplen], frag[:cmplen]); res != 0 {
		return res
	}
	switch {
	case len(key) < len(frag):
		return -1
	case len(key) > len(frag):
		return 1
	}
	return 0
}
