/*
DESCRIPTION
  context.go implements the coding context: the per-session cache bank
  of working image sets and macroblocks a pipeline pass borrows from,
  the reference frame ring buffer, and the flat per-macroblock
  descriptor table deblocking and serialization read back from.

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

// CacheBank holds the working image sets and macroblocks a Context lends
// out during encode and decode. None of these buffers are meaningful
// across frames except PredictionCache, which is the reference ring.
type CacheBank struct {
	InputCache     *ImageSet // 4:2:0 view of the source image being coded.
	OutputCache    *ImageSet // transformed and quantized view.
	TransformCache *ImageSet // scratch buffer for transform operations.
	MotionCache    *ImageSet // cache for motion interpolated blocks.
	PredictionCache []*ImageSet // reference frame ring, length Config.ReferenceFrameCount.
	StagingCache   *ImageSet   // used during serialization for block ordering.

	TransformBlock *Macroblock // static scratch for transform ops.
	MotionBlock    *Macroblock // static scratch for motion interpolation.
	StagingBlock   *Macroblock // static scratch for staging.
}

// Context is the full coding state shared by the encode and decode
// pipelines: the entropy coder, its feed buffer, the per-macroblock
// descriptor table, and the cache bank.
type Context struct {
	ArithCoder *ABACCoder
	FeedStream *BitStream

	BlockTable []BlockDesc
	Cache      CacheBank

	WidthInBlocks  uint32
	HeightInBlocks uint32

	// Contexts is the per-syntax-element adaptive context banks the slice
	// (de)serializer drives through SyntaxCoder. Each element's contexts
	// are independent of the others so, e.g., motion vector bits never
	// bias the block type model.
	Contexts SyntaxContexts
}

// SyntaxContexts groups the adaptive context banks used by the slice
// (de)serializer, one bank per syntax element.
type SyntaxContexts struct {
	BlockType  ContextSet
	PredTarget ContextSet
	MotionVec  ContextSet
	Subpixel   ContextSet
	Quality    ContextSet
	CoeffCount ContextSet
	CoeffValue ContextSet
}

func newSyntaxContexts() SyntaxContexts {
	return SyntaxContexts{
		BlockType:  NewContextSet(3),
		PredTarget: NewContextSet(4),
		MotionVec:  NewContextSet(8),
		Subpixel:   NewContextSet(4),
		Quality:    NewContextSet(8),
		CoeffCount: NewContextSet(16),
		CoeffValue: NewContextSet(16),
	}
}

// Reset restores every bank to its initial, unbiased probabilities.
func (sc SyntaxContexts) Reset() {
	sc.BlockType.Reset()
	sc.PredTarget.Reset()
	sc.MotionVec.Reset()
	sc.Subpixel.Reset()
	sc.Quality.Reset()
	sc.CoeffCount.Reset()
	sc.CoeffValue.Reset()
}

func newCacheBank(cfg Config, format PixelFormat, width, height uint32) (CacheBank, error) {
	mk := func() (*ImageSet, error) { return NewImageSet(format, width, height) }

	input, err := mk()
	if err != nil {
		return CacheBank{}, err
	}
	output, err := mk()
	if err != nil {
		return CacheBank{}, err
	}
	transform, err := mk()
	if err != nil {
		return CacheBank{}, err
	}
	motion, err := mk()
	if err != nil {
		return CacheBank{}, err
	}
	staging, err := mk()
	if err != nil {
		return CacheBank{}, err
	}

	ring := make([]*ImageSet, cfg.ReferenceFrameCount)
	for i := range ring {
		img, err := mk()
		if err != nil {
			return CacheBank{}, err
		}
		ring[i] = img
	}

	return CacheBank{
		InputCache:      input,
		OutputCache:     output,
		TransformCache:  transform,
		MotionCache:     motion,
		PredictionCache: ring,
		StagingCache:    staging,
		TransformBlock:  NewMacroblock(transform, 0, 0),
		MotionBlock:     NewMacroblock(motion, 0, 0),
		StagingBlock:    NewMacroblock(staging, 0, 0),
	}, nil
}

// NewContext allocates all internal buffers required to code a stream of
// the given pixel dimensions. width and height must be even and a
// multiple of MacroblockSize.
func NewContext(cfg Config, width, height uint32) (*Context, error) {
	if width%MacroblockSize != 0 || height%MacroblockSize != 0 {
		return nil, errors.Wrap(ErrInvalidResource, "NewContext: dimensions must be a multiple of the macroblock size")
	}

	cache, err := newCacheBank(cfg, FormatY16S, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "NewContext: allocate cache bank")
	}

	widthInBlocks := width / MacroblockSize
	heightInBlocks := height / MacroblockSize

	return &Context{
		ArithCoder:     NewABACCoder(),
		FeedStream:     NewBitStream(1 << 16),
		BlockTable:     make([]BlockDesc, widthInBlocks*heightInBlocks),
		Cache:          cache,
		WidthInBlocks:  widthInBlocks,
		HeightInBlocks: heightInBlocks,
		Contexts:       newSyntaxContexts(),
	}, nil
}

// Width returns the context's coded width in pixels.
func (c *Context) Width() uint32 { return c.WidthInBlocks << MacroblockShift }

// Height returns the context's coded height in pixels.
func (c *Context) Height() uint32 { return c.HeightInBlocks << MacroblockShift }

// Reset clears the entropy coder and feed buffer so the context can code
// the next frame without carrying stale bitstream state.
func (c *Context) Reset() {
	c.ArithCoder.Reset()
	c.FeedStream.Clear()
	c.Contexts.Reset()
}

// BlockDescAt returns a pointer to the descriptor for the macroblock at
// block-grid coordinates (bx, by).
func (c *Context) BlockDescAt(bx, by uint32) *BlockDesc {
	return &c.BlockTable[by*c.WidthInBlocks+bx]
}
