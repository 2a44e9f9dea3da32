// +build gofuzz

package node

func Fuzz(data []byte) int {
	n := &T{ID: 1, Buf: data}
	if _, err := n.Check(false); err != nil {
		return 0
	}

	// walk all the entries
	var key []byte
	for i := 0; i < n.Nent(); i++ {
		key, _ = n.KeyFetch(key, i)
	}

	return 1
}
