/*
DESCRIPTION
  analysis.go implements the block-level statistics the motion estimator
  and adaptive quantizer drive their decisions from: sum of absolute and
  squared differences, maximum absolute difference, and mean/variance
  estimators over a macroblock's luma (and, for MAD, chroma) samples.

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

// computeBlockSAD returns the sum of absolute luma differences between
// left and right.
func computeBlockSAD(left, right *Macroblock) int32 {
	l, r := left.LumaBlock(), right.LumaBlock()
	var sad int32
	for i := range l {
		sad += absInt32(int32(l[i]) - int32(r[i]))
	}
	return sad
}

// computeBlockSelfSAD returns the sum of absolute luma values in delta,
// the single-block form used to score a residual directly.
func computeBlockSelfSAD(delta *Macroblock) int32 {
	d := delta.LumaBlock()
	var sad int32
	for i := range d {
		sad += absInt32(int32(d[i]))
	}
	return sad
}

// computeBlockMSE returns the mean squared luma error between left and
// right.
func computeBlockMSE(left, right *Macroblock) int32 {
	l, r := left.LumaBlock(), right.LumaBlock()
	var mse int32
	for i := range l {
		temp := int32(l[i]) - int32(r[i])
		mse += temp * temp
	}
	return mse >> (MacroblockShift + MacroblockShift)
}

// computeBlockSSD returns the sum of squared luma differences between
// left and right.
func computeBlockSSD(left, right *Macroblock) int32 {
	l, r := left.LumaBlock(), right.LumaBlock()
	var ssd int32
	for i := range l {
		temp := int32(l[i]) - int32(r[i])
		ssd += temp * temp
	}
	return ssd
}

// computeBlockMAD returns the maximum absolute difference between left
// and right, examining both luma and chroma planes so a chroma-only
// change is never missed.
func computeBlockMAD(left, right *Macroblock) int32 {
	var mad int32

	ly, ry := left.LumaBlock(), right.LumaBlock()
	for i := range ly {
		mad = maxInt32(absInt32(int32(ly[i])-int32(ry[i])), mad)
	}

	for p := 0; p < 2; p++ {
		lc, rc := left.ChromaBlock(p), right.ChromaBlock(p)
		for i := range lc {
			mad = maxInt32(absInt32(int32(lc[i])-int32(rc[i])), mad)
		}
	}

	return mad
}

// computeBlockMean returns the rounded average luma sample value.
func computeBlockMean(src *Macroblock) int32 {
	y := src.LumaBlock()
	var mean int32
	for i := range y {
		mean += int32(y[i])
	}
	return (mean + 128) >> 8
}

// computeNonzeroBlockMean returns the rounded average magnitude of the
// block's nonzero luma samples, or zero if every sample is zero.
func computeNonzeroBlockMean(src *Macroblock) int16 {
	y := src.LumaBlock()
	var mean int32
	var count int32
	for i := range y {
		if y[i] != 0 {
			mean += absInt32(int32(y[i]))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int16(roundedDiv(mean, count))
}

// computeBlockVariance returns the mean absolute deviation of the
// block's luma samples from their mean.
func computeBlockVariance(src *Macroblock) int32 {
	mean := computeBlockMean(src)
	y := src.LumaBlock()
	var variance int32
	for i := range y {
		variance += absInt32(int32(y[i]) - mean)
	}
	return (variance + 128) >> 8
}

// computeBlockVariance2 returns sum_of_squares - (sum^2)/count over the
// block's nonzero luma coefficients, skipping the DC position at (0,0).
// This is the estimator the adaptive quantizer selects block QP from.
func computeBlockVariance2(src *Macroblock) int32 {
	y := src.LumaBlock()
	var sum, sumOfSquares, count int32

	for j := 0; j < MacroblockSize; j++ {
		for i := 0; i < MacroblockSize; i++ {
			if i == 0 && j == 0 {
				continue
			}
			v := int32(y[j*MacroblockSize+i])
			if v != 0 {
				sum += v
				sumOfSquares += v * v
				count++
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sumOfSquares - roundedDiv(sum*sum, count)
}

// computeBlockVariance3 returns the mean absolute deviation of the
// block's nonzero luma coefficients (DC excluded) from the nonzero mean.
func computeBlockVariance3(src *Macroblock) int16 {
	mean := computeNonzeroBlockMean(src)
	y := src.LumaBlock()
	var variance int32
	var count int32

	for j := 0; j < MacroblockSize; j++ {
		for i := 0; i < MacroblockSize; i++ {
			if i == 0 && j == 0 {
				continue
			}
			v := y[j*MacroblockSize+i]
			if v != 0 {
				variance += absInt32(int32(v) - int32(mean))
				count++
			}
		}
	}

	if count == 0 {
		return 0
	}
	return int16(roundedDiv(variance, count))
}
