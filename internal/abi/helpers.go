package abi

import "math"

// SafeMulU32 returns a*b, or false if the product does not fit in 32 bits.
func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

// SafeAddU32 returns a+b, or false if the sum does not fit in 32 bits.
func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// Length returns the byte length of count elements of size bytes, or false
// if it exceeds limit.
func Length(count, size, limit uint32) (uint32, bool) {
	n, ok := SafeMulU32(count, size)
	if !ok || n > limit {
		return 0, false
	}
	return n, true
}

// End returns the exclusive end of the range [start, start+n), or false if
// it exceeds limit.
func End(start, n, limit uint32) (uint32, bool) {
	end, ok := SafeAddU32(start, n)
	if !ok || end > limit {
		return 0, false
	}
	return end, true
}
