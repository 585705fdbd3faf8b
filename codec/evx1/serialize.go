/*
DESCRIPTION
  serialize.go writes a coded frame's block table and quantized residuals
  to a bit stream. Block table fields are grouped by kind (types,
  prediction targets, motion vectors, sub-pixel parameters, quantization
  deltas) so that each field's bits share one adaptive context bank
  instead of diluting it against unrelated syntax. Residual coefficients
  are zig-zag scanned and DC-delta coded against a neighboring block
  exactly where the original addresses that neighbor: the block one
  position to the left, or on the first column, the block above.

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

import "github.com/pkg/errors"

func refCountBits(refCount int) int {
	n := int(log2Uint8(uint32(refCount)))
	if n < 1 {
		n = 1
	}
	return n
}

func serializeBlockTypes(ctx *Context) {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.BlockType)
	for _, b := range ctx.BlockTable {
		sc.WriteBits(uint32(b.BlockType), 3)
	}
}

func serializePredictionTargets(ctx *Context, refCount int) {
	bitCount := refCountBits(refCount)
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.PredTarget)
	for _, b := range ctx.BlockTable {
		if b.BlockType.IsIntra() {
			continue
		}
		sc.WriteBits(uint32(b.PredictionTarget), bitCount)
	}
}

func serializeMotionVectors(ctx *Context) {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.MotionVec)

	var lastX int16
	for _, b := range ctx.BlockTable {
		if !b.BlockType.IsMotion() {
			continue
		}
		sc.WriteSignedGolomb(int32(b.MotionX - lastX))
		lastX = b.MotionX
	}

	var lastY int16
	for _, b := range ctx.BlockTable {
		if !b.BlockType.IsMotion() {
			continue
		}
		sc.WriteSignedGolomb(int32(b.MotionY - lastY))
		lastY = b.MotionY
	}
}

func serializeSubpixelMotionParams(ctx *Context) {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.Subpixel)

	for _, b := range ctx.BlockTable {
		if !b.BlockType.IsMotion() {
			continue
		}
		sc.WriteBit(boolBit(b.SPPred))
	}
	for _, b := range ctx.BlockTable {
		if !b.BlockType.IsMotion() || !b.SPPred {
			continue
		}
		sc.WriteBit(boolBit(b.SPAmount))
	}
	for _, b := range ctx.BlockTable {
		if !b.BlockType.IsMotion() || !b.SPPred {
			continue
		}
		sc.WriteBits(uint32(b.SPIndex), 3)
	}
}

func serializeBlockQuality(ctx *Context) {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.Quality)

	var lastQ int16
	for _, b := range ctx.BlockTable {
		if b.BlockType.IsCopy() {
			continue
		}
		current := int16(b.QIndex)
		sc.WriteSignedGolomb(int32(current - lastQ))
		lastQ = current
	}
}

func serializeBlockTable(ctx *Context, refCount int) {
	serializeBlockTypes(ctx)
	serializePredictionTargets(ctx, refCount)
	serializeMotionVectors(ctx)
	serializeSubpixelMotionParams(ctx)
	serializeBlockQuality(ctx)
}

func boolBit(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

func extract8x8(raster []int16, offset, stride int) [64]int16 {
	var out [64]int16
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			out[r*8+c] = raster[offset+r*stride+c]
		}
	}
	return out
}

func inject8x8(raster []int16, offset, stride int, block [64]int16) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			raster[offset+r*stride+c] = block[r*8+c]
		}
	}
}

// serializeResidualBlock8x8 zig-zag scans block, writes the position of
// its last nonzero coefficient (plus one) as an unsigned Exp-Golomb value
// under count, then a signed Exp-Golomb coefficient under coeff for every
// scan position up to and including that last nonzero position. Trailing
// zeros past the last nonzero coefficient are omitted; zeros before it
// are still coded as a zero-valued coefficient.
func serializeResidualBlock8x8(count, coeff *SyntaxCoder, block [64]int16) {
	last := -1
	for pos := 0; pos < 64; pos++ {
		if block[zigzag8x8[pos]] != 0 {
			last = pos
		}
	}

	count.WriteUnsignedGolomb(uint32(last + 1))
	for pos := 0; pos <= last; pos++ {
		coeff.WriteSignedGolomb(int32(block[zigzag8x8[pos]]))
	}
}

// serializeResidual16x16From writes the four 8x8 quadrants of a 16x16
// luma residual found at offset within raster (pitch stride), chaining
// each quadrant's DC against the one the original addresses: the top
// left quadrant chains against lastDC, the top right and bottom left
// quadrants chain against the top left quadrant's own (undelta'd) DC,
// and the bottom right chains against the bottom left's.
func serializeResidual16x16From(count, coeff *SyntaxCoder, raster []int16, offset, stride int, lastDC int16) {
	tl := extract8x8(raster, offset, stride)
	tlDC := tl[0]
	tl[0] -= lastDC
	serializeResidualBlock8x8(count, coeff, tl)

	tr := extract8x8(raster, offset+8, stride)
	tr[0] -= tlDC
	serializeResidualBlock8x8(count, coeff, tr)

	bl := extract8x8(raster, offset+8*stride, stride)
	blDC := bl[0]
	bl[0] -= tlDC
	serializeResidualBlock8x8(count, coeff, bl)

	br := extract8x8(raster, offset+8*stride+8, stride)
	br[0] -= blDC
	serializeResidualBlock8x8(count, coeff, br)
}

func serializeLumaPlane(ctx *Context) {
	count := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.CoeffCount)
	coeff := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.CoeffValue)

	plane := ctx.Cache.OutputCache.Y
	width, height := plane.Width(), plane.Height()

	blockIndex := 0
	for j := uint32(0); j < height; j += MacroblockSize {
		for i := uint32(0); i < width; i += MacroblockSize {
			desc := ctx.BlockTable[blockIndex]
			blockIndex++
			if desc.BlockType.IsCopy() {
				continue
			}

			var lastDC int16
			if i >= MacroblockSize {
				lastDC = plane.Sample16(i-MacroblockChromaSize, j)
			} else if j >= MacroblockSize {
				lastDC = plane.Sample16(i, j-MacroblockChromaSize)
			}

			mb := NewMacroblock(ctx.Cache.OutputCache, int(i), int(j))
			y := mb.LumaBlock()
			serializeResidual16x16From(count, coeff, y[:], 0, MacroblockSize, lastDC)
		}
	}
}

func extractPlaneBlock8x8(plane *Plane, i, j uint32) [64]int16 {
	var out [64]int16
	for r := uint32(0); r < 8; r++ {
		for c := uint32(0); c < 8; c++ {
			out[r*8+c] = plane.Sample16(i+c, j+r)
		}
	}
	return out
}

func serializeChromaPlane(ctx *Context, plane *Plane) {
	count := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.CoeffCount)
	coeff := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.CoeffValue)

	width, height := plane.Width(), plane.Height()

	blockIndex := 0
	for j := uint32(0); j < height; j += MacroblockChromaSize {
		for i := uint32(0); i < width; i += MacroblockChromaSize {
			desc := ctx.BlockTable[blockIndex]
			blockIndex++
			if desc.BlockType.IsCopy() {
				continue
			}

			var lastDC int16
			if i >= MacroblockChromaSize {
				lastDC = plane.Sample16(i-MacroblockChromaSize, j)
			} else if j >= MacroblockChromaSize {
				lastDC = plane.Sample16(i, j-MacroblockChromaSize)
			}

			block := extractPlaneBlock8x8(plane, i, j)
			block[0] -= lastDC
			serializeResidualBlock8x8(count, coeff, block)
		}
	}
}

func serializeMacroblocks(cfg Config, ctx *Context) {
	serializeLumaPlane(ctx)
	if cfg.EnableChroma {
		serializeChromaPlane(ctx, ctx.Cache.OutputCache.U)
		serializeChromaPlane(ctx, ctx.Cache.OutputCache.V)
	}
}

// SerializeSlice writes frame's block table and residuals to output. The
// arithmetic coder is attached fresh to output and flushed at the end, so
// output receives exactly one slice's worth of coded bits.
func SerializeSlice(cfg Config, frame Frame, ctx *Context, output *BitStream) error {
	if len(ctx.BlockTable) == 0 {
		return errors.Wrap(ErrInvalidResource, "SerializeSlice: empty block table")
	}

	ctx.ArithCoder.AttachEncoder(output)

	serializeBlockTable(ctx, len(ctx.Cache.PredictionCache))
	serializeMacroblocks(cfg, ctx)

	ctx.ArithCoder.Flush()

	return nil
}
