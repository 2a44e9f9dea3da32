// +build !release

// Package debug traps the process on engine invariant violations, such
// as operating on a destroyed tree handle. These are programmer
// errors, not data corruption: damaged nodes are reported through
// corruption tags and never trap.
package debug

import _ "unsafe"

//go:linkname throw runtime.throw
func throw(string)

// Assert traps when fn reports a violated invariant. The trap is a
// runtime throw and cannot be recovered.
func Assert(info string, fn func() bool) {
	if !fn() {
		throw("btree invariant violated: " + info)
	}
}
