package pcg

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestPCG(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a, b := New(42, 0), New(42, 0)
		for i := 0; i < 100; i++ {
			assert.Equal(t, a.Uint32(), b.Uint32())
		}
	})

	t.Run("Streams", func(t *testing.T) {
		a, b := New(42, 0), New(42, 1)
		same := 0
		for i := 0; i < 100; i++ {
			if a.Uint32() == b.Uint32() {
				same++
			}
		}
		assert.That(t, same < 100)
	})

	t.Run("Intn", func(t *testing.T) {
		g := New(7, 11)
		for i := 0; i < 1000; i++ {
			v := g.Intn(10)
			assert.That(t, v >= 0)
			assert.That(t, v < 10)
		}
	})
}
