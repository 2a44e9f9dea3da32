// Package pcg implements a small PCG random number generator, used by
// tests to produce repeatable key streams.
package pcg

import "math/bits"

const mul = 6364136223846793005

// T is a pcg generator. The zero value is invalid; use New.
type T struct {
	State uint64
	Inc   uint64
}

// New constructs a generator from a state and a stream selector.
func New(state, inc uint64) T {
	inc = inc<<1 | 1
	return T{
		State: (inc+state)*mul + inc,
		Inc:   inc,
	}
}

// Uint32 returns a random uint32.
func (p *T) Uint32() uint32 {
	oldstate := p.State
	p.State = oldstate*mul + p.Inc

	// xorshift-rotate output permutation on the old state. A left
	// rotate instead of the canonical right one; any rotate works for
	// the output compression and this one the compiler handles well.
	xorshift := uint32(((oldstate >> 18) ^ oldstate) >> 27)
	return bits.RotateLeft32(xorshift, int(oldstate>>59))
}

// Intn returns an int uniformly in [0, n).
func (p *T) Intn(n int) int {
	// multiply-shift instead of mod; fine for random full-range input
	return int((uint64(p.Uint32()) * uint64(n)) >> 32)
}
