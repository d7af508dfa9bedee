// Package buf contains overflow-safe address arithmetic and endian-safe
// decoding helpers shared by the image engine and the front ends. The Intel
// HEX address space is capped at 32 bits, so every shift or span computation
// goes through these instead of raw uint32 math that could silently wrap.
package buf

import "math"

// AddrCeiling is the highest address the format can express.
const AddrCeiling = math.MaxUint32

// EndAddr returns the last address of a run of n bytes starting at start.
// ok is false when the run would extend past the 32-bit ceiling or n is not
// positive.
func EndAddr(start uint32, n int) (uint32, bool) {
	if n <= 0 {
		return 0, false
	}
	end := uint64(start) + uint64(n) - 1
	if end > AddrCeiling {
		return 0, false
	}
	return uint32(end), true
}

// SpanFits reports whether n bytes starting at start lie entirely inside the
// 32-bit address space. n == 0 trivially fits.
func SpanFits(start uint32, n int) bool {
	if n == 0 {
		return true
	}
	_, ok := EndAddr(start, n)
	return ok
}

// ShiftAddr applies a signed delta to an address, returning ok = false when
// the result leaves [0, AddrCeiling].
func ShiftAddr(a uint32, delta int64) (uint32, bool) {
	v := int64(a) + delta
	if v < 0 || v > AddrCeiling {
		return 0, false
	}
	return uint32(v), true
}
