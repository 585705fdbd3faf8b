/*
DESCRIPTION
  types.go defines the frame and block type enumerations shared across the
  codec pipeline.

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

// FrameType distinguishes an intra (key) frame from an inter (predicted)
// frame.
type FrameType uint8

const (
	FrameIntra FrameType = 0
	FrameInter FrameType = 1
)

func (t FrameType) String() string {
	if t == FrameIntra {
		return "intra"
	}
	return "inter"
}

// BlockType packs three independent bits describing how a macroblock was
// predicted:
//
//	bit 0 - intra (1) vs inter (0) source
//	bit 1 - motion compensated (1) vs co-located (0)
//	bit 2 - copy (1, no residual) vs delta (0, residual follows)
//
//	                            source   motion?   operation
//	  intra block default         i         n         direct
//	  intra motion copy           i         y         copy
//	  intra motion delta          i         y         sub
//	  inter block delta           p         n         sub
//	  inter block copy            p         n         copy
//	  inter motion copy           p         y         copy
//	  inter motion delta          p         y         sub
type BlockType uint8

const (
	BlockIntraDefault    = BlockType(0x1)
	BlockIntraMotionCopy = BlockType(0x1 | 0x2 | 0x4)
	BlockIntraMotionDelta = BlockType(0x1 | 0x2)
	BlockInterCopy       = BlockType(0x4)
	BlockInterDelta      = BlockType(0x0)
	BlockInterMotionCopy = BlockType(0x2 | 0x4)
	BlockInterMotionDelta = BlockType(0x2)
)

func makeBlockType(intra, motion, copyBlk bool) BlockType {
	var t BlockType
	if intra {
		t |= 0x1
	}
	if motion {
		t |= 0x2
	}
	if copyBlk {
		t |= 0x4
	}
	return t
}

// IsIntra reports whether the block's source is an intra prediction.
func (t BlockType) IsIntra() bool { return t&0x1 != 0 }

// IsMotion reports whether the block used a motion offset (as opposed to
// a co-located reference).
func (t BlockType) IsMotion() bool { return t&0x2 != 0 }

// IsCopy reports whether the block carries no residual (pure copy/skip).
func (t BlockType) IsCopy() bool { return t&0x4 != 0 }

func (t BlockType) String() string {
	switch t {
	case BlockIntraDefault:
		return "intra-default"
	case BlockIntraMotionCopy:
		return "intra-motion-copy"
	case BlockIntraMotionDelta:
		return "intra-motion-delta"
	case BlockInterCopy:
		return "inter-copy"
	case BlockInterDelta:
		return "inter-delta"
	case BlockInterMotionCopy:
		return "inter-motion-copy"
	case BlockInterMotionDelta:
		return "inter-motion-delta"
	default:
		return "unknown"
	}
}

// Frame carries the per-frame metadata a prediction or serialization pass
// needs: which slot it occupies in the reference ring, and the quality
// level it was coded at.
type Frame struct {
	Type    FrameType
	Index   uint32
	Quality uint16
}

// BlockDesc is the per-macroblock descriptor produced by motion estimation
// and classification, and consumed by quantization, serialization, and
// deblocking.
type BlockDesc struct {
	BlockType        BlockType
	PredictionTarget uint8
	MotionX          int16
	MotionY          int16
	SPPred           bool
	SPAmount         bool
	SPIndex          uint8
	QIndex           uint8

	// Variance is populated for Peek introspection only; it plays no role
	// in encoding or decoding.
	Variance int16
}

// Clear resets d to its zero value in place.
func (d *BlockDesc) Clear() { *d = BlockDesc{} }

// PeekState selects which internal buffer Encoder.Peek renders for
// debugging and testing.
type PeekState int

const (
	PeekSource PeekState = iota
	PeekPrediction
	PeekBlockTable
	PeekQuantTable
	PeekSubpixelTable
	PeekBlockVariance
	PeekDestination
)
