/*
DESCRIPTION
  quantize.go implements the modified MPEG-2 style quantizer: separate
  weighting matrices for intra and inter coded 8x8 blocks, a DC
  coefficient scaled independently of the AC matrix, and an adaptive QP
  selector that nudges a block's quantization parameter toward the
  variance of its own transform coefficients.

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

const quantizerScaleFactor = 16

const maxMPEGQuantLevels = 32

// defaultIntra8x8QM is the intra coded weighting matrix, heavier at high
// frequencies than the inter matrix since intra blocks carry no temporal
// reference to lean on.
var defaultIntra8x8QM = [64]int16{
	8, 17, 18, 19, 21, 23, 25, 27,
	17, 18, 19, 21, 23, 25, 27, 28,
	20, 21, 22, 23, 24, 26, 28, 30,
	21, 22, 23, 24, 26, 28, 30, 32,
	22, 23, 24, 26, 28, 30, 32, 35,
	23, 24, 26, 28, 30, 32, 35, 38,
	25, 26, 28, 30, 32, 35, 38, 41,
	27, 28, 30, 32, 35, 38, 41, 45,
}

var defaultInter8x8QM = [64]int16{
	16, 17, 18, 19, 20, 21, 22, 23,
	17, 18, 19, 20, 21, 22, 23, 24,
	18, 19, 20, 21, 22, 23, 24, 25,
	19, 20, 21, 22, 23, 24, 26, 27,
	20, 21, 22, 23, 25, 26, 27, 28,
	21, 22, 23, 24, 26, 27, 28, 30,
	22, 23, 24, 26, 27, 28, 30, 31,
	23, 24, 25, 27, 28, 30, 31, 33,
}

func signInt32(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// computeLumaDCScale returns the scale applied to a luma block's DC
// coefficient, independent of the AC weighting matrix.
func computeLumaDCScale(qp int16) int16 {
	switch {
	case qp < 5:
		return 8
	case qp < 9:
		return qp << 1
	case qp < 25:
		return qp + 8
	default:
		return (qp << 1) - 16
	}
}

// computeChromaDCScale returns the scale applied to a chroma block's DC
// coefficient.
func computeChromaDCScale(qp int16) int16 {
	switch {
	case qp < 5:
		return 8
	case qp < 25:
		return (qp + 13) >> 1
	default:
		return qp - 6
	}
}

// queryBlockQuantizationParameter nudges quality toward the index implied
// by the block's own coefficient variance, so busy blocks get coarser
// quantization and flat ones get finer quantization without a full
// rate-control pass.
func queryBlockQuantizationParameter(cfg Config, quality uint8, src *Macroblock) uint8 {
	if !cfg.EnableQuantization {
		return 0
	}
	if !cfg.AdaptiveQuantization {
		return quality
	}

	variance := uint32(computeBlockVariance2(src))
	index := clipQuantLevel(uint8(log2Uint8(variance)>>1), 1, maxMPEGQuantLevels-1)

	if index > quality {
		return clipQuantLevel(quality+((index-quality)>>1), 1, maxMPEGQuantLevels-1)
	}
	if index < quality {
		return clipQuantLevel(quality-((quality-index)>>1), 1, maxMPEGQuantLevels-1)
	}
	return quality
}

func clipQuantLevel(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func quantizeLumaIntraBlock8x8(cfg Config, qp uint8, source []int16, srcOffset, srcStride int, dest []int16, destOffset, destStride int) {
	for j := 0; j < 8; j++ {
		for k := 0; k < 8; k++ {
			qmValue := int32(defaultIntra8x8QM[k+j*8])
			sourceLuma := int32(source[srcOffset+k+j*srcStride])

			var out int32
			if cfg.RoundedQuantization {
				out = roundedDiv(roundedDiv(sourceLuma*quantizerScaleFactor, qmValue), int32(qp)<<1)
			} else {
				out = (sourceLuma * quantizerScaleFactor / qmValue) / (int32(qp) << 1)
			}
			dest[destOffset+k+j*destStride] = int16(out)
		}
	}

	dcScale := int32(computeLumaDCScale(int16(qp)))
	if cfg.RoundedQuantization {
		dest[destOffset] = int16(roundedDiv(int32(source[srcOffset]), dcScale))
	} else {
		dest[destOffset] = int16(int32(source[srcOffset]) / dcScale)
	}
}

func quantizeChromaIntraBlock8x8(cfg Config, qp uint8, source []int16, srcOffset, srcStride int, dest []int16, destOffset, destStride int) {
	for j := 0; j < 8; j++ {
		for k := 0; k < 8; k++ {
			qmValue := int32(defaultIntra8x8QM[k+j*8])
			sourceChroma := int32(source[srcOffset+k+j*srcStride])

			var out int32
			if cfg.RoundedQuantization {
				out = roundedDiv(roundedDiv(sourceChroma*quantizerScaleFactor, qmValue), int32(qp)<<1)
			} else {
				out = (sourceChroma * quantizerScaleFactor / qmValue) / (int32(qp) << 1)
			}
			dest[destOffset+k+j*destStride] = int16(out)
		}
	}

	dcScale := int32(computeChromaDCScale(int16(qp)))
	if cfg.RoundedQuantization {
		dest[destOffset] = int16(roundedDiv(int32(source[srcOffset]), dcScale))
	} else {
		dest[destOffset] = int16(int32(source[srcOffset]) / dcScale)
	}
}

func quantizeInterBlock8x8(cfg Config, qp uint8, source []int16, srcOffset, srcStride int, dest []int16, destOffset, destStride int) {
	for j := 0; j < 8; j++ {
		for k := 0; k < 8; k++ {
			qmValue := int32(defaultInter8x8QM[k+j*8])
			sourceValue := int32(source[srcOffset+k+j*srcStride])

			if cfg.RoundedQuantization {
				qfactor := roundedDiv(sourceValue*quantizerScaleFactor, qmValue)
				dest[destOffset+k+j*destStride] = int16(roundedDiv(qfactor-signInt32(qfactor)*int32(qp), int32(qp)<<1))
			} else {
				qfactor := sourceValue * quantizerScaleFactor / qmValue
				dest[destOffset+k+j*destStride] = int16((qfactor - signInt32(qfactor)*int32(qp)) / (int32(qp) << 1))
			}
		}
	}
}

func inverseQuantizeLumaIntraBlock8x8(qp uint8, source []int16, srcOffset, srcStride int, dest []int16, destOffset, destStride int) {
	for j := 0; j < 8; j++ {
		for k := 0; k < 8; k++ {
			qmValue := int32(defaultIntra8x8QM[k+j*8])
			sourceLuma := int32(source[srcOffset+k+j*srcStride])
			dest[destOffset+k+j*destStride] = int16((2 * sourceLuma * qmValue * int32(qp)) / quantizerScaleFactor)
		}
	}

	dcScale := int32(computeLumaDCScale(int16(qp)))
	dest[destOffset] = int16(int32(source[srcOffset]) * dcScale)
}

func inverseQuantizeChromaIntraBlock8x8(qp uint8, source []int16, srcOffset, srcStride int, dest []int16, destOffset, destStride int) {
	for j := 0; j < 8; j++ {
		for k := 0; k < 8; k++ {
			qmValue := int32(defaultIntra8x8QM[k+j*8])
			sourceChroma := int32(source[srcOffset+k+j*srcStride])
			dest[destOffset+k+j*destStride] = int16((2 * sourceChroma * qmValue * int32(qp)) / quantizerScaleFactor)
		}
	}

	dcScale := int32(computeChromaDCScale(int16(qp)))
	dest[destOffset] = int16(int32(source[srcOffset]) * dcScale)
}

func inverseQuantizeInterBlock8x8(qp uint8, source []int16, srcOffset, srcStride int, dest []int16, destOffset, destStride int) {
	for j := 0; j < 8; j++ {
		for k := 0; k < 8; k++ {
			qmValue := int32(defaultInter8x8QM[k+j*8])
			sourceValue := int32(source[srcOffset+k+j*srcStride])
			dest[destOffset+k+j*destStride] = int16((2 * sourceValue * qmValue * int32(qp)) / quantizerScaleFactor)
		}
	}
}

func quantizeIntraMacroblock(cfg Config, qp uint8, source, dest *Macroblock) {
	sy := source.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16

	quantizeLumaIntraBlock8x8(cfg, qp, sy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	quantizeLumaIntraBlock8x8(cfg, qp, sy[:], 8, MacroblockSize, dy[:], 8, MacroblockSize)
	quantizeLumaIntraBlock8x8(cfg, qp, sy[:], 8*MacroblockSize, MacroblockSize, dy[:], 8*MacroblockSize, MacroblockSize)
	quantizeLumaIntraBlock8x8(cfg, qp, sy[:], 8*MacroblockSize+8, MacroblockSize, dy[:], 8*MacroblockSize+8, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc := source.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		quantizeChromaIntraBlock8x8(cfg, qp, sc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

func quantizeInterMacroblock(cfg Config, qp uint8, source, dest *Macroblock) {
	sy := source.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16

	quantizeInterBlock8x8(cfg, qp, sy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	quantizeInterBlock8x8(cfg, qp, sy[:], 8, MacroblockSize, dy[:], 8, MacroblockSize)
	quantizeInterBlock8x8(cfg, qp, sy[:], 8*MacroblockSize, MacroblockSize, dy[:], 8*MacroblockSize, MacroblockSize)
	quantizeInterBlock8x8(cfg, qp, sy[:], 8*MacroblockSize+8, MacroblockSize, dy[:], 8*MacroblockSize+8, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc := source.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		quantizeInterBlock8x8(cfg, qp, sc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

func inverseQuantizeIntraMacroblock(qp uint8, source, dest *Macroblock) {
	sy := source.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16

	inverseQuantizeLumaIntraBlock8x8(qp, sy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	inverseQuantizeLumaIntraBlock8x8(qp, sy[:], 8, MacroblockSize, dy[:], 8, MacroblockSize)
	inverseQuantizeLumaIntraBlock8x8(qp, sy[:], 8*MacroblockSize, MacroblockSize, dy[:], 8*MacroblockSize, MacroblockSize)
	inverseQuantizeLumaIntraBlock8x8(qp, sy[:], 8*MacroblockSize+8, MacroblockSize, dy[:], 8*MacroblockSize+8, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc := source.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		inverseQuantizeChromaIntraBlock8x8(qp, sc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

func inverseQuantizeInterMacroblock(qp uint8, source, dest *Macroblock) {
	sy := source.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16

	inverseQuantizeInterBlock8x8(qp, sy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	inverseQuantizeInterBlock8x8(qp, sy[:], 8, MacroblockSize, dy[:], 8, MacroblockSize)
	inverseQuantizeInterBlock8x8(qp, sy[:], 8*MacroblockSize, MacroblockSize, dy[:], 8*MacroblockSize, MacroblockSize)
	inverseQuantizeInterBlock8x8(qp, sy[:], 8*MacroblockSize+8, MacroblockSize, dy[:], 8*MacroblockSize+8, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc := source.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		inverseQuantizeInterBlock8x8(qp, sc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

// QuantizeMacroblock quantizes source into dest using the intra matrices
// for a non-motion-compensated intra block, and the inter matrices
// otherwise. If quantization is disabled in cfg, dest is set to a copy of
// source.
func QuantizeMacroblock(cfg Config, qp uint8, blockType BlockType, source, dest *Macroblock) {
	if !cfg.EnableQuantization {
		copyMacroblock(source, dest)
		return
	}
	if blockType.IsIntra() && !blockType.IsMotion() {
		quantizeIntraMacroblock(cfg, qp, source, dest)
		return
	}
	quantizeInterMacroblock(cfg, qp, source, dest)
}

// InverseQuantizeMacroblock reverses QuantizeMacroblock.
func InverseQuantizeMacroblock(cfg Config, qp uint8, blockType BlockType, source, dest *Macroblock) {
	if !cfg.EnableQuantization {
		copyMacroblock(source, dest)
		return
	}
	if blockType.IsIntra() && !blockType.IsMotion() {
		inverseQuantizeIntraMacroblock(qp, source, dest)
		return
	}
	inverseQuantizeInterMacroblock(qp, source, dest)
}
