/*
DESCRIPTION
  unserialize.go is the mirror of serialize.go: it reads a block table and
  quantized residuals back out of a bit stream. Every section is read in
  exactly the order serialize.go wrote it, since later sections (motion
  vectors, sub-pixel parameters) are only present for blocks whose type
  the block-type section already disclosed.

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

func unserializeBlockTypes(ctx *Context) error {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.BlockType)
	for i := range ctx.BlockTable {
		v, err := sc.ReadBits(3)
		if err != nil {
			return errors.Wrap(err, "unserializeBlockTypes")
		}
		ctx.BlockTable[i].BlockType = BlockType(v)
	}
	return nil
}

func unserializePredictionTargets(ctx *Context, refCount int) error {
	bitCount := refCountBits(refCount)
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.PredTarget)
	for i := range ctx.BlockTable {
		if ctx.BlockTable[i].BlockType.IsIntra() {
			continue
		}
		v, err := sc.ReadBits(bitCount)
		if err != nil {
			return errors.Wrap(err, "unserializePredictionTargets")
		}
		ctx.BlockTable[i].PredictionTarget = uint8(v)
	}
	return nil
}

func unserializeMotionVectors(ctx *Context) error {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.MotionVec)

	var lastX int16
	for i := range ctx.BlockTable {
		if !ctx.BlockTable[i].BlockType.IsMotion() {
			continue
		}
		d, err := sc.ReadSignedGolomb()
		if err != nil {
			return errors.Wrap(err, "unserializeMotionVectors: x")
		}
		lastX += int16(d)
		ctx.BlockTable[i].MotionX = lastX
	}

	var lastY int16
	for i := range ctx.BlockTable {
		if !ctx.BlockTable[i].BlockType.IsMotion() {
			continue
		}
		d, err := sc.ReadSignedGolomb()
		if err != nil {
			return errors.Wrap(err, "unserializeMotionVectors: y")
		}
		lastY += int16(d)
		ctx.BlockTable[i].MotionY = lastY
	}
	return nil
}

func unserializeSubpixelMotionParams(ctx *Context) error {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.Subpixel)

	for i := range ctx.BlockTable {
		if !ctx.BlockTable[i].BlockType.IsMotion() {
			continue
		}
		bit, err := sc.ReadBit()
		if err != nil {
			return errors.Wrap(err, "unserializeSubpixelMotionParams: sp_pred")
		}
		ctx.BlockTable[i].SPPred = bit != 0
	}
	for i := range ctx.BlockTable {
		if !ctx.BlockTable[i].BlockType.IsMotion() || !ctx.BlockTable[i].SPPred {
			continue
		}
		bit, err := sc.ReadBit()
		if err != nil {
			return errors.Wrap(err, "unserializeSubpixelMotionParams: sp_amount")
		}
		ctx.BlockTable[i].SPAmount = bit != 0
	}
	for i := range ctx.BlockTable {
		if !ctx.BlockTable[i].BlockType.IsMotion() || !ctx.BlockTable[i].SPPred {
			continue
		}
		v, err := sc.ReadBits(3)
		if err != nil {
			return errors.Wrap(err, "unserializeSubpixelMotionParams: sp_index")
		}
		ctx.BlockTable[i].SPIndex = uint8(v)
	}
	return nil
}

func unserializeBlockQuality(ctx *Context) error {
	sc := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.Quality)

	var lastQ int16
	for i := range ctx.BlockTable {
		if ctx.BlockTable[i].BlockType.IsCopy() {
			continue
		}
		d, err := sc.ReadSignedGolomb()
		if err != nil {
			return errors.Wrap(err, "unserializeBlockQuality")
		}
		lastQ += int16(d)
		ctx.BlockTable[i].QIndex = uint8(lastQ)
	}
	return nil
}

func unserializeBlockTable(ctx *Context, refCount int) error {
	if err := unserializeBlockTypes(ctx); err != nil {
		return err
	}
	if err := unserializePredictionTargets(ctx, refCount); err != nil {
		return err
	}
	if err := unserializeMotionVectors(ctx); err != nil {
		return err
	}
	if err := unserializeSubpixelMotionParams(ctx); err != nil {
		return err
	}
	if err := unserializeBlockQuality(ctx); err != nil {
		return err
	}
	return nil
}

// unserializeResidualBlock8x8 reads one zig-zag scanned 8x8 residual block
// coded by serializeResidualBlock8x8: a coefficient count followed by that
// many signed coefficients in zig-zag order.
func unserializeResidualBlock8x8(count, coeff *SyntaxCoder) ([64]int16, error) {
	var raster [64]int16

	n, err := count.ReadUnsignedGolomb()
	if err != nil {
		return raster, errors.Wrap(err, "unserializeResidualBlock8x8: count")
	}
	if n > 64 {
		return raster, errors.Wrap(ErrInvalidResource, "unserializeResidualBlock8x8: count out of range")
	}

	for pos := 0; pos < int(n); pos++ {
		v, err := coeff.ReadSignedGolomb()
		if err != nil {
			return raster, errors.Wrap(err, "unserializeResidualBlock8x8: coefficient")
		}
		raster[zigzag8x8[pos]] = int16(v)
	}
	return raster, nil
}

// unserializeResidual16x16Into reads the four 8x8 quadrants of a 16x16 luma
// residual into raster at offset (pitch stride), reversing the DC chain
// serializeResidual16x16From applied.
func unserializeResidual16x16Into(count, coeff *SyntaxCoder, raster []int16, offset, stride int, lastDC int16) error {
	tl, err := unserializeResidualBlock8x8(count, coeff)
	if err != nil {
		return err
	}
	tlDC := tl[0] + lastDC
	tl[0] = tlDC
	inject8x8(raster, offset, stride, tl)

	tr, err := unserializeResidualBlock8x8(count, coeff)
	if err != nil {
		return err
	}
	tr[0] += tlDC
	inject8x8(raster, offset+8, stride, tr)

	bl, err := unserializeResidualBlock8x8(count, coeff)
	if err != nil {
		return err
	}
	blDC := bl[0] + tlDC
	bl[0] = blDC
	inject8x8(raster, offset+8*stride, stride, bl)

	br, err := unserializeResidualBlock8x8(count, coeff)
	if err != nil {
		return err
	}
	br[0] += blDC
	inject8x8(raster, offset+8*stride+8, stride, br)

	return nil
}

func unserializeLumaPlane(ctx *Context) error {
	count := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.CoeffCount)
	coeff := NewSyntaxCoder(ctx.ArithCoder, ctx.Contexts.CoeffValue)

	plane := ctx.Cache.InputCache.Y
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

			mb := NewMacroblock(ctx.Cache.InputCache, int(i), int(j))
			var raster [MacroblockSize * MacroblockSize]int16
			if err := unserializeResidual16x16Into(count, coeff, raster[:], 0, MacroblockSize, lastDC); err != nil {
				return errors.Wrap(err, "unserializeLumaPlane")
			}
			mb.SetLumaBlock(&raster)
		}
	}
	return nil
}

func unserializeChromaPlane(ctx *Context, plane *Plane) error {
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

			block, err := unserializeResidualBlock8x8(count, coeff)
			if err != nil {
				return errors.Wrap(err, "unserializeChromaPlane")
			}
			block[0] += lastDC

			for r := uint32(0); r < 8; r++ {
				for c := uint32(0); c < 8; c++ {
					plane.SetSample16(i+c, j+r, block[r*8+c])
				}
			}
		}
	}
	return nil
}

func unserializeMacroblocks(cfg Config, ctx *Context) error {
	if err := unserializeLumaPlane(ctx); err != nil {
		return err
	}
	if cfg.EnableChroma {
		if err := unserializeChromaPlane(ctx, ctx.Cache.InputCache.U); err != nil {
			return err
		}
		if err := unserializeChromaPlane(ctx, ctx.Cache.InputCache.V); err != nil {
			return err
		}
	}
	return nil
}

// UnserializeSlice reads a block table and residuals from input into ctx,
// the inverse of SerializeSlice.
func UnserializeSlice(cfg Config, input *BitStream, ctx *Context) error {
	if err := ctx.ArithCoder.AttachDecoder(input); err != nil {
		return errors.Wrap(err, "UnserializeSlice: attach decoder")
	}

	if err := unserializeBlockTable(ctx, len(ctx.Cache.PredictionCache)); err != nil {
		return errors.Wrap(err, "UnserializeSlice: block table")
	}
	if err := unserializeMacroblocks(cfg, ctx); err != nil {
		return errors.Wrap(err, "UnserializeSlice: residuals")
	}

	return nil
}
