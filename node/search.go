package node

import "github.com/ccnkit/bt/internal/mon"

// Search results are encoded as 2*index + (found ? 1 : 0): a hit is
// odd, a miss is even, and on a miss the index is where the key would
// be inserted. The encoding is strict; negative values never carry it.

// EncRes encodes a search result.
func EncRes(i int, found bool) int {
	if found {
		return 2*i + 1
	}
	return 2 * i
}

// Index extracts the entry index from an encoded search result.
func Index(res int) int { return res >> 1 }

// Found reports whether an encoded search result was a hit.
func Found(res int) bool { return res&1 != 0 }

var searchThunk mon.Thunk // timing info for Search

// Search binary-searches the node for key. The keys in the node must be
// sorted and unique. It returns the encoded result, or -1 and an error.
func (n *T) Search(key []byte) (int, error) {
	timer := searchThunk.Start()
	defer timer.Stop()

	if n.Corrupt != 0 {
		return -1, Error.New("node %d corrupt (tag %d)", n.ID, n.Corrupt)
	}

	i, j := 0, n.Nent()
	for i < j {
		mid := (i + j) >> 1
		res := n.Compare(key, mid)
		if res == -999 || res == 999 {
			return -1, Error.New("node %d corrupt (tag %d)", n.ID, n.Corrupt)
		}
		switch {
		case res == 0:
			return EncRes(mid, true), nil
		case res < 0:
			j = mid
		default:
			i = mid + 1
		}
	}
	if i != j {
		return -1, Error.New("node %d: search bounds crossed", n.ID)
	}
	return EncRes(i, false), nil
}
