package node

import (
	"fmt"
	"testing"

	"github.com/zeebo/assert"

	"github.com/ccnkit/bt/internal/pack"
	"github.com/ccnkit/bt/internal/pcg"
)

const (
	numbersShift = 16
	numbersSize  = 1 << numbersShift
	numbersMask  = numbersSize - 1
)

var (
	numbers [][]byte
	gen     = pcg.New(42, 0)
)

func init() {
	numbers = make([][]byte, numbersSize)
	for i := range numbers {
		numbers[i] = []byte(fmt.Sprint(gen.Intn(numbersSize)))
	}
}

func newLeaf(t testing.TB) *T {
	n := &T{ID: 1}
	assert.NoError(t, n.Init(0, 'L', 0))
	return n
}

func payload4(v uint32) []byte {
	b := make([]byte, 4)
	pack.Store(b, v)
	return b
}

// insertKey searches for key and inserts it at the miss index,
// returning false if it was already present.
func insertKey(t testing.TB, n *T, key string, payload []byte) bool {
	res, err := n.Search([]byte(key))
	assert.NoError(t, err)
	if Found(res) {
		return false
	}
	_, err = n.InsertEntry(Index(res), []byte(key), payload)
	assert.NoError(t, err)
	return true
}
