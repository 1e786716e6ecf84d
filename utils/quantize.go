// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale returns the largest positive value a signed sample of the given
// bit width can hold (127 for 8 bit, 32767 for 16 bit and so on).
func FullScale(bits int) int64 {
	return int64(1)<<(bits-1) - 1
}

// Clip hard-limits v to the signed range of the given bit width.
// The second result reports whether v had to be limited.
func Clip(v int64, bits int) (int32, bool) {
	hi := FullScale(bits)
	lo := -hi - 1

	if v > hi {
		return int32(hi), true
	}
	if v < lo {
		return int32(lo), true
	}

	return int32(v), false
}

// Quantize scales a normalized sample x in [-1,1] to a signed integer of the
// given bit width. Values outside [-1,1] saturate, NaN becomes silence.
func Quantize(x float64, bits int) int32 {
	if x != x {
		return 0
	}

	// Clamp before scaling so huge gains cannot overflow the float->int conversion
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	v, _ := Clip(int64(math.Round(x*float64(FullScale(bits)))), bits)
	return v
}

// Normalize converts a signed integer sample of the given bit width back to
// a float in [-1,1].
func Normalize(v int64, bits int) float32 {
	return float32(float64(v) / float64(FullScale(bits)+1))
}
