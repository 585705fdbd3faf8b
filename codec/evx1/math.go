/*
DESCRIPTION
  math.go collects the small fixed point helpers used throughout the
  transform, quantization, and motion estimation stages.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package evx1

// clipRange clamps v to [lo, hi].
func clipRange(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// roundedDiv performs a round-half-away-from-zero division, matching the
// codec's rounded_div helper: positive dividends round up at the half way
// point, negative dividends round down (more negative).
func roundedDiv(num, denom int32) int32 {
	if denom == 0 {
		return 0
	}
	if (num < 0) != (denom < 0) {
		return (num - denom/2) / denom
	}
	return (num + denom/2) / denom
}

// roundOut adds a fixed offset before a later plain division, matching the
// codec's evx_round_out helper used by the lerp blend functions. It differs
// from roundedDiv in that the caller performs the final division
// separately; the offset is added for v >= 0 and subtracted for v < 0.
func roundOut(v, offset int32) int32 {
	if v >= 0 {
		return v + offset
	}
	return v - offset
}

// log2Uint8 returns the position of the highest set bit, matching the
// codec's integer log2 helper used for quantization index selection.
func log2Uint8(v uint32) uint32 {
	var result uint32
	for v > 1 {
		v >>= 1
		result++
	}
	return result
}

// alignUint32 rounds v up to the next multiple of n (n must be a power of
// two), matching the codec's align() used for macroblock dimension
// rounding.
func alignUint32(v, n uint32) uint32 {
	return (v + n - 1) &^ (n - 1)
}

// saturateByte clamps v into the range of a byte, matching the codec's
// saturate() used when converting YUV back to RGB.
func saturateByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
