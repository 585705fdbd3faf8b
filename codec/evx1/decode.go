/*
DESCRIPTION
  decode.go implements the per-macroblock and per-slice decode pipeline:
  given a block descriptor and its quantized residual (if any),
  reconstruct the macroblock by copying, adding, or motion-compensating
  against the reference ring named in the descriptor. This pipeline also
  backs the encoder's own reconstruction pass.

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

// decodeBlock reconstructs destBlock from srcBlock (the quantized
// residual for a delta block type, unused for a copy type) and
// blockDesc's motion/prediction fields.
func decodeBlock(cfg Config, frame Frame, blockDesc BlockDesc, srcBlock *Macroblock, cache *CacheBank, i, j int32, destBlock *Macroblock) error {
	switch blockDesc.BlockType {
	case BlockIntraDefault:
		InverseQuantizeMacroblock(cfg, blockDesc.QIndex, blockDesc.BlockType, srcBlock, cache.TransformBlock)
		InverseTransformMacroblock(cache.TransformBlock, destBlock)

	case BlockIntraMotionCopy:
		intraPredIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[intraPredIndex], int(i)+int(blockDesc.MotionX), int(j)+int(blockDesc.MotionY))

		if blockDesc.SPPred {
			dirX, dirY := computeMotionDirectionFromFracIndex(blockDesc.SPIndex)
			createSubpixelMacroblock(cache.PredictionCache[intraPredIndex], blockDesc.SPAmount, beta,
				int(i)+int(blockDesc.MotionX)+int(dirX), int(j)+int(blockDesc.MotionY)+int(dirY), cache.MotionBlock)
			copyMacroblock(cache.MotionBlock, destBlock)
		} else {
			copyMacroblock(beta, destBlock)
		}

	case BlockIntraMotionDelta:
		intraPredIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[intraPredIndex], int(i)+int(blockDesc.MotionX), int(j)+int(blockDesc.MotionY))
		InverseQuantizeMacroblock(cfg, blockDesc.QIndex, blockDesc.BlockType, srcBlock, cache.TransformBlock)

		if blockDesc.SPPred {
			dirX, dirY := computeMotionDirectionFromFracIndex(blockDesc.SPIndex)
			createSubpixelMacroblock(cache.PredictionCache[intraPredIndex], blockDesc.SPAmount, beta,
				int(i)+int(blockDesc.MotionX)+int(dirX), int(j)+int(blockDesc.MotionY)+int(dirY), cache.MotionBlock)
			InverseTransformAddMacroblock(cache.TransformBlock, cache.MotionBlock, destBlock)
		} else {
			InverseTransformAddMacroblock(cache.TransformBlock, beta, destBlock)
		}

	case BlockInterMotionCopy:
		interPredIndex := queryPredictionIndexByOffset(frame.Index, blockDesc.PredictionTarget, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[interPredIndex], int(i)+int(blockDesc.MotionX), int(j)+int(blockDesc.MotionY))

		if blockDesc.SPPred {
			dirX, dirY := computeMotionDirectionFromFracIndex(blockDesc.SPIndex)
			createSubpixelMacroblock(cache.PredictionCache[interPredIndex], blockDesc.SPAmount, beta,
				int(i)+int(blockDesc.MotionX)+int(dirX), int(j)+int(blockDesc.MotionY)+int(dirY), cache.MotionBlock)
			copyMacroblock(cache.MotionBlock, destBlock)
		} else {
			copyMacroblock(beta, destBlock)
		}

	case BlockInterCopy:
		interPredIndex := queryPredictionIndexByOffset(frame.Index, blockDesc.PredictionTarget, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[interPredIndex], int(i), int(j))
		copyMacroblock(beta, destBlock)

	case BlockInterMotionDelta:
		interPredIndex := queryPredictionIndexByOffset(frame.Index, blockDesc.PredictionTarget, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[interPredIndex], int(i)+int(blockDesc.MotionX), int(j)+int(blockDesc.MotionY))
		InverseQuantizeMacroblock(cfg, blockDesc.QIndex, blockDesc.BlockType, srcBlock, cache.TransformBlock)

		if blockDesc.SPPred {
			dirX, dirY := computeMotionDirectionFromFracIndex(blockDesc.SPIndex)
			createSubpixelMacroblock(cache.PredictionCache[interPredIndex], blockDesc.SPAmount, beta,
				int(i)+int(blockDesc.MotionX)+int(dirX), int(j)+int(blockDesc.MotionY)+int(dirY), cache.MotionBlock)
			InverseTransformAddMacroblock(cache.TransformBlock, cache.MotionBlock, destBlock)
		} else {
			InverseTransformAddMacroblock(cache.TransformBlock, beta, destBlock)
		}

	case BlockInterDelta:
		interPredIndex := queryPredictionIndexByOffset(frame.Index, blockDesc.PredictionTarget, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[interPredIndex], int(i), int(j))
		InverseQuantizeMacroblock(cfg, blockDesc.QIndex, blockDesc.BlockType, srcBlock, cache.TransformBlock)
		InverseTransformAddMacroblock(cache.TransformBlock, beta, destBlock)

	default:
		return errors.Wrap(ErrInvalidResource, "decodeBlock: unrecognized block type")
	}

	return nil
}

// DecodeSlice reconstructs every macroblock of frame into the context's
// destination reference slot from ctx.BlockTable and the quantized
// residual samples already unserialized into ctx.Cache.InputCache.
func DecodeSlice(cfg Config, frame Frame, ctx *Context) error {
	destIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(ctx.Cache.PredictionCache)))

	blockIndex := 0
	for j := uint32(0); j < ctx.Height(); j += MacroblockSize {
		for i := uint32(0); i < ctx.Width(); i += MacroblockSize {
			blockDesc := ctx.BlockTable[blockIndex]
			blockIndex++

			srcBlock := NewMacroblock(ctx.Cache.InputCache, int(i), int(j))
			destBlock := NewMacroblock(ctx.Cache.PredictionCache[destIndex], int(i), int(j))

			if err := decodeBlock(cfg, frame, blockDesc, srcBlock, &ctx.Cache, int32(i), int32(j), destBlock); err != nil {
				return errors.Wrap(err, "DecodeSlice: decode block")
			}
		}
	}

	return nil
}

// DecodeFrame unserializes input into ctx, reconstructs the frame, runs
// the deblocking filter, and converts the result, an RGB24 plane, into
// output.
func DecodeFrame(cfg Config, input *BitStream, frame Frame, ctx *Context, output *Plane) error {
	destIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(ctx.Cache.PredictionCache)))

	if err := UnserializeSlice(cfg, input, ctx); err != nil {
		return errors.Wrap(err, "DecodeFrame: unserialize slice")
	}

	if err := DecodeSlice(cfg, frame, ctx); err != nil {
		return errors.Wrap(err, "DecodeFrame: decode slice")
	}

	DeblockImageFilter(cfg, ctx.BlockTable, ctx.Cache.PredictionCache[destIndex])

	if err := ConvertFromWorkingSet(cfg, ctx.Cache.PredictionCache[destIndex], output); err != nil {
		return errors.Wrap(err, "DecodeFrame: convert output")
	}

	return nil
}
