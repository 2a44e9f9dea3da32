package bt

import (
	"fmt"

	"github.com/ccnkit/bt/internal/pack"
	"github.com/ccnkit/bt/internal/pcg"
)

var gen = pcg.New(1234, 0)

// keyseq returns n distinct zero-padded keys in insertion order.
func keyseq(n int) [][]byte {
	keys := make([][]byte, n)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := gen.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	for i, v := range perm {
		keys[i] = []byte(fmt.Sprintf("%05d", v))
	}
	return keys
}

func payload4(v uint32) []byte {
	b := make([]byte, 4)
	pack.Store(b, v)
	return b
}
